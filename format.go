package bsp

import (
	"fmt"
)

// Format identifies one engine lineage's binary layout convention,
// including per-engine sub-revisions (demo vs retail builds, Source
// version bumps). Formats are opaque: the codec only ever asks membership
// questions about them.
type Format int

const (
	FormatUnknown Format = iota

	// Quake engine line. The texture lump uses the legacy mip-pyramid
	// offset table.
	Quake
	GoldSrc
	BlueShift

	// Quake II engine line.
	Quake2
	Daikatana
	SoF
	SiN

	// Quake III engine line and its licensees.
	Quake3
	RTCW
	ET
	Raven
	FAKK2
	Alice
	MOHAA
	MOHAADemo
	STEF2
	STEF2Demo
	CoD
	CoDDemo
	CoD2
	CoD4

	// 007 Nightfire.
	Nightfire

	// Source engine revisions. The texture lump is a null-terminated
	// name table.
	Source17
	Source18
	Source19
	Source20
	Source21
	Source22
	Source23
	Source27
	Vindictus
	DMoMaM

	// Family roots. A family is itself a Format so membership queries
	// compose: IsSubtypeOf(CoD, FamilyQuake3) holds because CoD belongs
	// to FamilyCoD which derives from FamilyQuake3.
	FamilyQuake
	FamilyQuake2
	FamilyQuake3
	FamilyUberTools
	FamilyCoD
	FamilyNightfire
	FamilySource
)

// variantFamilies lists, per variant, every family it belongs to with the
// transitive closure already baked in. The old flag-region arithmetic the
// formats inherited from their engines is deliberately not reproduced;
// membership is answered from this one table.
var variantFamilies = map[Format][]Format{
	Quake:     {FamilyQuake},
	GoldSrc:   {FamilyQuake},
	BlueShift: {FamilyQuake},

	Quake2:    {FamilyQuake2},
	Daikatana: {FamilyQuake2},
	SoF:       {FamilyQuake2},
	SiN:       {FamilyQuake2},

	Quake3: {FamilyQuake3},
	RTCW:   {FamilyQuake3},
	ET:     {FamilyQuake3},
	Raven:  {FamilyQuake3},

	FAKK2:     {FamilyUberTools, FamilyQuake3},
	Alice:     {FamilyUberTools, FamilyQuake3},
	MOHAA:     {FamilyUberTools, FamilyQuake3},
	MOHAADemo: {FamilyUberTools, FamilyQuake3},
	STEF2:     {FamilyUberTools, FamilyQuake3},
	STEF2Demo: {FamilyUberTools, FamilyQuake3},

	CoD:     {FamilyCoD, FamilyQuake3},
	CoDDemo: {FamilyCoD, FamilyQuake3},
	CoD2:    {FamilyCoD, FamilyQuake3},
	CoD4:    {FamilyCoD, FamilyQuake3},

	Nightfire: {FamilyNightfire},

	Source17:  {FamilySource},
	Source18:  {FamilySource},
	Source19:  {FamilySource},
	Source20:  {FamilySource},
	Source21:  {FamilySource},
	Source22:  {FamilySource},
	Source23:  {FamilySource},
	Source27:  {FamilySource},
	Vindictus: {FamilySource},
	DMoMaM:    {FamilySource},
}

// membership is the precomputed (variant -> set of formats it belongs to)
// table. Built once, never mutated afterwards.
var membership = func() map[Format]map[Format]bool {
	result := make(map[Format]map[Format]bool)
	for variant, families := range variantFamilies {
		set := make(map[Format]bool, len(families)+1)
		set[variant] = true
		for _, family := range families {
			set[family] = true
		}
		result[variant] = set
	}

	// A family trivially contains itself so family roots can be passed
	// wherever a variant is expected.
	for _, families := range variantFamilies {
		for _, family := range families {
			if _, pres := result[family]; !pres {
				result[family] = map[Format]bool{family: true}
			}
		}
	}
	return result
}()

// IsSubtypeOf reports whether format belongs to family. Membership is
// transitive and the query is pure and total: unknown formats simply
// belong to nothing.
func IsSubtypeOf(format, family Format) bool {
	set, pres := membership[format]
	if !pres {
		return false
	}
	return set[family]
}

// IsSource reports whether format is any Source engine revision. Several
// otherwise-distinct revisions answer true here.
func IsSource(format Format) bool {
	return IsSubtypeOf(format, FamilySource)
}

var formatNames = map[Format]string{
	FormatUnknown:   "Unknown",
	Quake:           "Quake",
	GoldSrc:         "GoldSrc",
	BlueShift:       "BlueShift",
	Quake2:          "Quake2",
	Daikatana:       "Daikatana",
	SoF:             "SoF",
	SiN:             "SiN",
	Quake3:          "Quake3",
	RTCW:            "RTCW",
	ET:              "ET",
	Raven:           "Raven",
	FAKK2:           "FAKK2",
	Alice:           "Alice",
	MOHAA:           "MOHAA",
	MOHAADemo:       "MOHAADemo",
	STEF2:           "STEF2",
	STEF2Demo:       "STEF2Demo",
	CoD:             "CoD",
	CoDDemo:         "CoDDemo",
	CoD2:            "CoD2",
	CoD4:            "CoD4",
	Nightfire:       "Nightfire",
	Source17:        "Source17",
	Source18:        "Source18",
	Source19:        "Source19",
	Source20:        "Source20",
	Source21:        "Source21",
	Source22:        "Source22",
	Source23:        "Source23",
	Source27:        "Source27",
	Vindictus:       "Vindictus",
	DMoMaM:          "DMoMaM",
	FamilyQuake:     "FamilyQuake",
	FamilyQuake2:    "FamilyQuake2",
	FamilyQuake3:    "FamilyQuake3",
	FamilyUberTools: "FamilyUberTools",
	FamilyCoD:       "FamilyCoD",
	FamilyNightfire: "FamilyNightfire",
	FamilySource:    "FamilySource",
}

// formatsByName is the inverse of formatNames, used by the schema loader.
var formatsByName = func() map[string]Format {
	result := make(map[string]Format, len(formatNames))
	for format, name := range formatNames {
		result[name] = format
	}
	return result
}()

func (self Format) String() string {
	name, pres := formatNames[self]
	if !pres {
		return fmt.Sprintf("Format(%d)", int(self))
	}
	return name
}

// AllFormats returns every concrete variant (family roots excluded) in
// declaration order.
func AllFormats() []Format {
	result := make([]Format, 0, len(variantFamilies))
	for format := Quake; format <= DMoMaM; format++ {
		if _, pres := variantFamilies[format]; pres {
			result = append(result, format)
		}
	}
	return result
}
