package bsp

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// DataType is the element width class of a NumberList. The class fixes
// both the decode stride and the encode stride for the life of the list.
// Unsigned 64-bit is deliberately unsupported: internal storage is a
// signed 64-bit slot and cannot carry the upper half of the uint64 range.
type DataType int

const (
	UInt8 DataType = iota
	Int8
	UInt16
	Int16
	UInt32
	Int32
	Int64
)

// Width returns the encoded size of one element in bytes, or 0 for an
// unknown class.
func (self DataType) Width() int {
	switch self {
	case UInt8, Int8:
		return 1
	case UInt16, Int16:
		return 2
	case UInt32, Int32:
		return 4
	case Int64:
		return 8
	}
	return 0
}

// Signed reports whether decode sign-extends rather than zero-extends.
func (self DataType) Signed() bool {
	switch self {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

func (self DataType) String() string {
	switch self {
	case UInt8:
		return "uint8"
	case Int8:
		return "int8"
	case UInt16:
		return "uint16"
	case Int16:
		return "int16"
	case UInt32:
		return "uint32"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	}
	return "invalid"
}

// dataTypesByName resolves the width-class names used in the lump schema
// definition.
var dataTypesByName = map[string]DataType{
	"uint8":  UInt8,
	"int8":   Int8,
	"uint16": UInt16,
	"int16":  Int16,
	"uint32": UInt32,
	"int32":  Int32,
	"int64":  Int64,
}

// NumberList is a lump holding a homogeneous array of integers. Values
// are widened to int64 internally; the declared DataType governs the wire
// layout. It behaves as an ordinary mutable ordered sequence.
type NumberList struct {
	values []int64
	dtype  DataType
	info   LumpInfo
}

// NewNumberList decodes a densely packed little-endian integer lump.
// The width is caller-supplied configuration, not self-describing in the
// bytes. A nil byte source is rejected with ErrInvalidArgument; a blob
// that is not a whole multiple of the element width is rejected with
// ErrTruncated rather than zero-padded.
func NewNumberList(data []byte, dtype DataType, info LumpInfo) (*NumberList, error) {
	if data == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "number list: nil data")
	}

	width := dtype.Width()
	if width == 0 {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"number list: unknown width class %d", int(dtype))
	}

	if len(data)%width != 0 {
		return nil, errors.Wrapf(ErrTruncated,
			"number list: %d bytes is not a multiple of element width %d",
			len(data), width)
	}

	result := &NumberList{
		values: make([]int64, 0, len(data)/width),
		dtype:  dtype,
		info:   info,
	}

	for i := 0; i < len(data); i += width {
		var value int64
		switch dtype {
		case UInt8:
			value = int64(data[i])
		case Int8:
			value = int64(int8(data[i]))
		case UInt16:
			value = int64(binary.LittleEndian.Uint16(data[i:]))
		case Int16:
			value = int64(int16(binary.LittleEndian.Uint16(data[i:])))
		case UInt32:
			value = int64(binary.LittleEndian.Uint32(data[i:]))
		case Int32:
			value = int64(int32(binary.LittleEndian.Uint32(data[i:])))
		case Int64:
			value = int64(binary.LittleEndian.Uint64(data[i:]))
		}
		result.values = append(result.values, value)
	}

	return result, nil
}

// NewEmptyNumberList builds an empty list for programmatic construction.
func NewEmptyNumberList(dtype DataType, info LumpInfo) (*NumberList, error) {
	if dtype.Width() == 0 {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"number list: unknown width class %d", int(dtype))
	}
	return &NumberList{dtype: dtype, info: info}, nil
}

func (self *NumberList) Type() DataType {
	return self.dtype
}

func (self *NumberList) Info() LumpInfo {
	return self.info
}

func (self *NumberList) Length() int {
	return len(self.values) * self.dtype.Width()
}

// Bytes encodes each stored value truncated to the declared width,
// little-endian.
func (self *NumberList) Bytes() []byte {
	width := self.dtype.Width()
	result := make([]byte, 0, len(self.values)*width)

	var scratch [8]byte
	for _, value := range self.values {
		switch width {
		case 1:
			scratch[0] = byte(value)
		case 2:
			binary.LittleEndian.PutUint16(scratch[:], uint16(value))
		case 4:
			binary.LittleEndian.PutUint32(scratch[:], uint32(value))
		case 8:
			binary.LittleEndian.PutUint64(scratch[:], uint64(value))
		}
		result = append(result, scratch[:width]...)
	}
	return result
}

func (self *NumberList) Count() int {
	return len(self.values)
}

func (self *NumberList) Get(index int) (int64, error) {
	if index < 0 || index >= len(self.values) {
		return 0, errors.Wrapf(ErrIndexOutOfRange,
			"number list: index %d of %d", index, len(self.values))
	}
	return self.values[index], nil
}

func (self *NumberList) Set(index int, value int64) error {
	if index < 0 || index >= len(self.values) {
		return errors.Wrapf(ErrIndexOutOfRange,
			"number list: index %d of %d", index, len(self.values))
	}
	self.values[index] = value
	return nil
}

func (self *NumberList) Add(value int64) {
	self.values = append(self.values, value)
}

func (self *NumberList) InsertAt(index int, value int64) error {
	if index < 0 || index > len(self.values) {
		return errors.Wrapf(ErrIndexOutOfRange,
			"number list: insert at %d of %d", index, len(self.values))
	}
	self.values = append(self.values, 0)
	copy(self.values[index+1:], self.values[index:])
	self.values[index] = value
	return nil
}

func (self *NumberList) RemoveAt(index int) error {
	if index < 0 || index >= len(self.values) {
		return errors.Wrapf(ErrIndexOutOfRange,
			"number list: remove at %d of %d", index, len(self.values))
	}
	self.values = append(self.values[:index], self.values[index+1:]...)
	return nil
}

// Remove deletes the first occurrence of value and reports whether one
// was found.
func (self *NumberList) Remove(value int64) bool {
	index := self.IndexOf(value)
	if index < 0 {
		return false
	}
	self.RemoveAt(index)
	return true
}

// IndexOf returns the position of the first occurrence of value, or -1.
func (self *NumberList) IndexOf(value int64) int {
	for i, v := range self.values {
		if v == value {
			return i
		}
	}
	return -1
}

func (self *NumberList) Contains(value int64) bool {
	return self.IndexOf(value) >= 0
}

// Values returns a copy of the current sequence.
func (self *NumberList) Values() []int64 {
	result := make([]int64, len(self.values))
	copy(result, self.values)
	return result
}

// AddValue is the boundary adapter for legacy callers holding an
// arbitrary narrow integer type. Only narrow integer kinds are accepted;
// anything else, including uint64 and uint whose range exceeds the
// internal signed slot, is rejected with ErrInvalidArgument. Storage
// stays int64 regardless of the incoming kind.
func (self *NumberList) AddValue(value interface{}) error {
	widened, ok := widenNumber(value)
	if !ok {
		return errors.Wrapf(ErrInvalidArgument,
			"number list: unsupported element type %T", value)
	}
	self.Add(widened)
	return nil
}

func widenNumber(value interface{}) (int64, bool) {
	switch t := value.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	default:
		return 0, false
	}
}

// NumberLumpSpec locates an indexed number lump within a dialect's lump
// directory: the directory ordinal and the element width class.
type NumberLumpSpec struct {
	Index int
	Type  DataType
}

// Per-kind directory lookups. Each returns the spec for the given format,
// or false when that dialect has no such lump. The tables behind them are
// exhaustive per dialect revision; see schema.go.

// LeafFacesSpec locates the leaf -> face index lump.
func LeafFacesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindLeafFaces, format)
}

// FaceEdgesSpec locates the face -> edge index lump.
func FaceEdgesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindFaceEdges, format)
}

// LeafBrushesSpec locates the leaf -> brush index lump.
func LeafBrushesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindLeafBrushes, format)
}

// IndicesSpec locates the general vertex/triangle index lump.
func IndicesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindIndices, format)
}

// PatchesSpec locates the patch index lump.
func PatchesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindPatches, format)
}

// LeafPatchesSpec locates the leaf -> patch index lump.
func LeafPatchesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindLeafPatches, format)
}

// LeafStaticModelsSpec locates the leaf -> static model index lump.
func LeafStaticModelsSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindLeafStaticModels, format)
}

// TextureTableSpec locates the texture offset table lump.
func TextureTableSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindTextureTable, format)
}

// DisplacementTrianglesSpec locates the displacement triangle tag lump.
func DisplacementTrianglesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindDisplacementTriangles, format)
}

// PrimitiveIndicesSpec locates the primitive ("t-junction fixup") index
// lump.
func PrimitiveIndicesSpec(format Format) (NumberLumpSpec, bool) {
	return numberLumpSpec(KindPrimitiveIndices, format)
}
