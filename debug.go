package bsp

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

func Debug(arg interface{}) {
	spew.Dump(arg)
}

func JsonDump(v interface{}) {
	fmt.Println(StringIndent(v))
}

func StringIndent(v interface{}) string {
	result, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		panic(err)
	}
	return string(result)
}
