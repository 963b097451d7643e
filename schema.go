package bsp

import (
	"github.com/Velocidex/yaml"
	"github.com/cockroachdb/errors"
)

// LumpKind names one well-known lump a record or number kind lives in.
type LumpKind int

const (
	KindInvalid LumpKind = iota
	KindLeafFaces
	KindFaceEdges
	KindLeafBrushes
	KindIndices
	KindPatches
	KindLeafPatches
	KindLeafStaticModels
	KindTextureTable
	KindDisplacementTriangles
	KindPrimitiveIndices
	KindBrushes
	KindBrushSides
	KindTextures
)

var lumpKindNames = map[LumpKind]string{
	KindLeafFaces:             "leaf_faces",
	KindFaceEdges:             "face_edges",
	KindLeafBrushes:           "leaf_brushes",
	KindIndices:               "indices",
	KindPatches:               "patches",
	KindLeafPatches:           "leaf_patches",
	KindLeafStaticModels:      "leaf_static_models",
	KindTextureTable:          "texture_table",
	KindDisplacementTriangles: "displacement_triangles",
	KindPrimitiveIndices:      "primitive_indices",
	KindBrushes:               "brushes",
	KindBrushSides:            "brush_sides",
	KindTextures:              "textures",
}

var lumpKindsByName = func() map[string]LumpKind {
	result := make(map[string]LumpKind, len(lumpKindNames))
	for kind, name := range lumpKindNames {
		result[name] = kind
	}
	return result
}()

func (self LumpKind) String() string {
	name, pres := lumpKindNames[self]
	if !pres {
		return "invalid"
	}
	return name
}

// lumpSchemaDefinition is the authoritative table of where each lump kind
// sits in every dialect's lump directory and, for number lumps, the
// element width. A dialect absent from a kind's list has no such lump.
// Demo and retail sub-revisions are listed separately on purpose: the
// demo builds of CoD, MOHAA and STEF2 shift or drop lumps relative to
// retail and must never share an entry with it.
const lumpSchemaDefinition = `
- kind: leaf_faces
  lumps:
    - formats: [Quake, GoldSrc, BlueShift]
      index: 11
      type: uint16
    - formats: [Quake2, SoF, SiN]
      index: 9
      type: uint16
    - formats: [Daikatana]
      index: 9
      type: uint32
    - formats: [Quake3, RTCW, ET, Raven]
      index: 5
      type: int32
    - formats: [FAKK2, Alice, MOHAA, MOHAADemo]
      index: 7
      type: int32
    - formats: [STEF2]
      index: 9
      type: int32
    - formats: [STEF2Demo]
      index: 8
      type: int32
    - formats: [CoD, CoDDemo]
      index: 27
      type: uint32
    - formats: [CoD2, CoD4]
      index: 31
      type: uint32
    - formats: [Nightfire]
      index: 12
      type: uint32
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, DMoMaM]
      index: 16
      type: uint16
    - formats: [Vindictus]
      index: 16
      type: uint32

- kind: face_edges
  lumps:
    - formats: [Quake, GoldSrc, BlueShift]
      index: 13
      type: int32
    - formats: [Quake2, Daikatana, SoF, SiN]
      index: 12
      type: int32
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, Vindictus, DMoMaM]
      index: 13
      type: int32

- kind: leaf_brushes
  lumps:
    - formats: [Quake2, SoF, SiN]
      index: 10
      type: uint16
    - formats: [Daikatana]
      index: 10
      type: uint32
    - formats: [Quake3, RTCW, ET, Raven, FAKK2, Alice, MOHAA, MOHAADemo]
      index: 6
      type: int32
    - formats: [STEF2]
      index: 8
      type: int32
    - formats: [STEF2Demo]
      index: 7
      type: int32
    - formats: [CoD, CoDDemo]
      index: 26
      type: uint32
    - formats: [CoD2, CoD4]
      index: 30
      type: uint32
    - formats: [Nightfire]
      index: 13
      type: uint32
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, DMoMaM]
      index: 17
      type: uint16
    - formats: [Vindictus]
      index: 17
      type: uint32

- kind: indices
  lumps:
    - formats: [Quake3, RTCW, ET, Raven]
      index: 11
      type: int32
    - formats: [FAKK2, Alice, MOHAA, MOHAADemo]
      index: 5
      type: int32
    - formats: [STEF2]
      index: 7
      type: int32
    - formats: [STEF2Demo]
      index: 6
      type: int32
    - formats: [CoD, CoDDemo]
      index: 7
      type: uint16
    - formats: [CoD2, CoD4]
      index: 9
      type: uint16
    - formats: [Nightfire]
      index: 6
      type: uint32

- kind: patches
  lumps:
    - formats: [CoD, CoDDemo]
      index: 16
      type: int32
    - formats: [CoD2]
      index: 20
      type: int32

- kind: leaf_patches
  lumps:
    - formats: [CoD, CoDDemo]
      index: 17
      type: int32
    - formats: [CoD2]
      index: 21
      type: int32

- kind: leaf_static_models
  lumps:
    - formats: [MOHAA]
      index: 26
      type: uint16
    - formats: [MOHAADemo]
      index: 25
      type: uint16

- kind: texture_table
  lumps:
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, Vindictus, DMoMaM]
      index: 44
      type: int32

- kind: displacement_triangles
  lumps:
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, DMoMaM]
      index: 48
      type: uint16
    - formats: [Vindictus]
      index: 48
      type: uint32

- kind: primitive_indices
  lumps:
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, DMoMaM]
      index: 39
      type: uint16
    - formats: [Vindictus]
      index: 39
      type: uint32

- kind: brushes
  lumps:
    - formats: [Quake2, Daikatana, SoF, SiN]
      index: 14
    - formats: [Quake3, RTCW, ET, Raven]
      index: 8
    - formats: [FAKK2, Alice]
      index: 11
    - formats: [MOHAA, MOHAADemo]
      index: 12
    - formats: [STEF2]
      index: 13
    - formats: [STEF2Demo]
      index: 12
    - formats: [CoD, CoDDemo]
      index: 4
    - formats: [CoD2, CoD4]
      index: 6
    - formats: [Nightfire]
      index: 15
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, Vindictus, DMoMaM]
      index: 18

- kind: brush_sides
  lumps:
    - formats: [Quake2, Daikatana, SoF, SiN]
      index: 15
    - formats: [Quake3, RTCW, ET, Raven]
      index: 9
    - formats: [FAKK2, Alice]
      index: 10
    - formats: [MOHAA, MOHAADemo]
      index: 11
    - formats: [STEF2]
      index: 12
    - formats: [STEF2Demo]
      index: 11
    - formats: [CoD, CoDDemo]
      index: 3
    - formats: [CoD2, CoD4]
      index: 5
    - formats: [Nightfire]
      index: 16
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, Vindictus, DMoMaM]
      index: 19

- kind: textures
  lumps:
    - formats: [Quake, GoldSrc, BlueShift]
      index: 2
    - formats: [Quake2, Daikatana, SoF, SiN]
      index: 5
    - formats: [Quake3, RTCW, ET, Raven, FAKK2, Alice, MOHAA, MOHAADemo, STEF2, STEF2Demo, CoD, CoDDemo, CoD2, CoD4]
      index: 0
    - formats: [Nightfire]
      index: 2
    - formats: [Source17, Source18, Source19, Source20, Source21, Source22, Source23, Source27, Vindictus, DMoMaM]
      index: 43
`

type lumpSchemaRecord struct {
	Formats []string `yaml:"formats"`
	Index   int      `yaml:"index"`
	Type    string   `yaml:"type"`
}

type lumpSchemaEntry struct {
	Kind  string             `yaml:"kind"`
	Lumps []lumpSchemaRecord `yaml:"lumps"`
}

// lumpSchema is the parsed dispatch table: kind -> exact variant -> spec.
var lumpSchema = func() map[LumpKind]map[Format]NumberLumpSpec {
	schema, err := parseLumpSchema(lumpSchemaDefinition)
	if err != nil {
		// The definition is a compile-time constant; failing to parse it
		// is a programming error, not an input error.
		panic(err)
	}
	return schema
}()

func parseLumpSchema(definition string) (map[LumpKind]map[Format]NumberLumpSpec, error) {
	var entries []lumpSchemaEntry
	err := yaml.Unmarshal([]byte(definition), &entries)
	if err != nil {
		return nil, errors.Wrap(err, "lump schema")
	}

	result := make(map[LumpKind]map[Format]NumberLumpSpec)
	for _, entry := range entries {
		kind, pres := lumpKindsByName[entry.Kind]
		if !pres {
			return nil, errors.Newf("lump schema: unknown kind %q", entry.Kind)
		}

		byFormat := make(map[Format]NumberLumpSpec)
		for _, record := range entry.Lumps {
			spec := NumberLumpSpec{Index: record.Index}
			if record.Type != "" {
				dtype, pres := dataTypesByName[record.Type]
				if !pres {
					return nil, errors.Newf(
						"lump schema: kind %q has unknown width class %q",
						entry.Kind, record.Type)
				}
				spec.Type = dtype
			}

			for _, name := range record.Formats {
				format, pres := formatsByName[name]
				if !pres {
					return nil, errors.Newf(
						"lump schema: kind %q lists unknown format %q",
						entry.Kind, name)
				}
				if _, dup := byFormat[format]; dup {
					return nil, errors.Newf(
						"lump schema: kind %q lists %q twice",
						entry.Kind, name)
				}
				byFormat[format] = spec
			}
		}
		result[kind] = byFormat
	}
	return result, nil
}

// numberLumpSpec answers a schema lookup by exact variant. Family roots
// deliberately resolve to nothing: the tables are keyed by revision.
func numberLumpSpec(kind LumpKind, format Format) (NumberLumpSpec, bool) {
	byFormat, pres := lumpSchema[kind]
	if !pres {
		return NumberLumpSpec{}, false
	}
	spec, pres := byFormat[format]
	return spec, pres
}

// recordLumpIndex is numberLumpSpec for record kinds, where only the
// ordinal is meaningful.
func recordLumpIndex(kind LumpKind, format Format) (int, bool) {
	spec, pres := numberLumpSpec(kind, format)
	return spec.Index, pres
}
