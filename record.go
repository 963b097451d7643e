package bsp

import (
	"github.com/cockroachdb/errors"
)

// recordElement is anything RecordLump can hold: a fixed-size record view
// over its own byte window.
type recordElement interface {
	Bytes() []byte
	Length() int
}

// RecordFactory builds one record view from its byte window. The window
// is owned by the record; factories must not retain references into the
// original lump blob.
type RecordFactory[T recordElement] func(window []byte, info LumpInfo, reader LumpReader) (T, error)

// RecordLump is a lump holding an ordered sequence of fixed-size records.
// Length and Bytes are always derived from the live elements.
type RecordLump[T recordElement] struct {
	elements []T
	info     LumpInfo
	reader   LumpReader
}

// decodeRecordLump splits data into structLength-sized windows and builds
// one record per window. Each record gets its own copy of its window so
// records never share mutable state. A trailing partial record means the
// lump is damaged or the format guess is wrong; the whole decode fails.
func decodeRecordLump[T recordElement](
	data []byte, structLength int, info LumpInfo,
	reader LumpReader, factory RecordFactory[T]) (*RecordLump[T], error) {

	if data == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "record lump: nil data")
	}
	if structLength <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"record lump: struct length %d", structLength)
	}
	if len(data)%structLength != 0 {
		return nil, errors.Wrapf(ErrTruncated,
			"record lump: %d bytes is not a multiple of record size %d",
			len(data), structLength)
	}

	result := &RecordLump[T]{
		elements: make([]T, 0, len(data)/structLength),
		info:     info,
		reader:   reader,
	}

	for offset := 0; offset < len(data); offset += structLength {
		window := make([]byte, structLength)
		copy(window, data[offset:offset+structLength])

		element, err := factory(window, info, reader)
		if err != nil {
			return nil, err
		}
		result.elements = append(result.elements, element)
	}

	return result, nil
}

// NewRecordLump builds an empty record lump for programmatic
// construction.
func NewRecordLump[T recordElement](info LumpInfo, reader LumpReader) *RecordLump[T] {
	return &RecordLump[T]{info: info, reader: reader}
}

func (self *RecordLump[T]) Info() LumpInfo {
	return self.info
}

func (self *RecordLump[T]) Count() int {
	return len(self.elements)
}

func (self *RecordLump[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(self.elements) {
		return zero, errors.Wrapf(ErrIndexOutOfRange,
			"record lump: index %d of %d", index, len(self.elements))
	}
	return self.elements[index], nil
}

func (self *RecordLump[T]) Append(element T) {
	self.elements = append(self.elements, element)
}

func (self *RecordLump[T]) InsertAt(index int, element T) error {
	if index < 0 || index > len(self.elements) {
		return errors.Wrapf(ErrIndexOutOfRange,
			"record lump: insert at %d of %d", index, len(self.elements))
	}
	var zero T
	self.elements = append(self.elements, zero)
	copy(self.elements[index+1:], self.elements[index:])
	self.elements[index] = element
	return nil
}

func (self *RecordLump[T]) RemoveAt(index int) error {
	if index < 0 || index >= len(self.elements) {
		return errors.Wrapf(ErrIndexOutOfRange,
			"record lump: remove at %d of %d", index, len(self.elements))
	}
	self.elements = append(self.elements[:index], self.elements[index+1:]...)
	return nil
}

func (self *RecordLump[T]) Length() int {
	result := 0
	for _, element := range self.elements {
		result += element.Length()
	}
	return result
}

func (self *RecordLump[T]) Bytes() []byte {
	result := make([]byte, 0, self.Length())
	for _, element := range self.elements {
		result = append(result, element.Bytes()...)
	}
	return result
}
