package bsp

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// BrushSide is one bounding plane of a brush, the record kind the brush's
// (first, count) reference pair points at. Same view convention as Brush:
// a fixed window, per-dialect field layout, -1 getters and no-op setters
// for fields a dialect does not store.
type BrushSide struct {
	data    []byte
	format  Format
	version int
	reader  LumpReader
}

// BrushSideStructLength returns the on-disk record size for the
// (format, lump version) pair, or ErrUnsupportedFormat.
func BrushSideStructLength(format Format, lumpVersion int) (int, error) {
	switch {
	case IsSubtypeOf(format, FamilyQuake2):
		// ushort plane, short texinfo.
		return 4, nil
	case IsSubtypeOf(format, FamilyQuake3),
		IsSubtypeOf(format, FamilyNightfire),
		IsSource(format):
		return 8, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedFormat,
		"brush side struct length for %v version %d", format, lumpVersion)
}

// BrushSideLumpIndex returns the ordinal of the brush-side lump within
// the given dialect's lump directory.
func BrushSideLumpIndex(format Format) (int, bool) {
	return recordLumpIndex(KindBrushSides, format)
}

func NewBrushSide(window []byte, info LumpInfo, reader LumpReader) (*BrushSide, error) {
	if reader == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "brush side: nil reader context")
	}
	if window == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "brush side: nil window")
	}

	length, err := BrushSideStructLength(reader.Format(), info.Version)
	if err != nil {
		return nil, err
	}
	if len(window) != length {
		return nil, errors.Wrapf(ErrTruncated,
			"brush side: window is %d bytes, %v needs %d",
			len(window), reader.Format(), length)
	}

	return &BrushSide{
		data:    window,
		format:  reader.Format(),
		version: info.Version,
		reader:  reader,
	}, nil
}

func NewEmptyBrushSide(info LumpInfo, reader LumpReader) (*BrushSide, error) {
	if reader == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "brush side: nil reader context")
	}
	length, err := BrushSideStructLength(reader.Format(), info.Version)
	if err != nil {
		return nil, err
	}
	return NewBrushSide(make([]byte, length), info, reader)
}

func (self *BrushSide) Format() Format {
	return self.format
}

func (self *BrushSide) Version() int {
	return self.version
}

func (self *BrushSide) Length() int {
	return len(self.data)
}

func (self *BrushSide) Bytes() []byte {
	return self.data
}

func (self *BrushSide) planeField() (int, int, bool) {
	switch {
	case IsSubtypeOf(self.format, FamilyQuake2), IsSource(self.format):
		return 0, 2, true
	case IsSubtypeOf(self.format, FamilyNightfire):
		return 4, 4, true
	case IsSubtypeOf(self.format, FamilyQuake3):
		return 0, 4, true
	}
	return 0, 0, false
}

func (self *BrushSide) textureField() (int, int, bool) {
	switch {
	case IsSubtypeOf(self.format, FamilyQuake2), IsSource(self.format):
		return 2, 2, true
	case IsSubtypeOf(self.format, FamilyNightfire):
		return 0, 0, false
	case IsSubtypeOf(self.format, FamilyQuake3):
		return 4, 4, true
	}
	return 0, 0, false
}

func (self *BrushSide) faceField() (int, int, bool) {
	if IsSubtypeOf(self.format, FamilyNightfire) {
		return 0, 4, true
	}
	return 0, 0, false
}

func (self *BrushSide) readField(offset, width int) int {
	switch width {
	case 2:
		return int(int16(binary.LittleEndian.Uint16(self.data[offset:])))
	case 4:
		return int(int32(binary.LittleEndian.Uint32(self.data[offset:])))
	}
	return -1
}

func (self *BrushSide) writeField(offset, width, value int) {
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(self.data[offset:], uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(self.data[offset:], uint32(value))
	}
}

// PlaneIndex returns the index into the plane lump, or -1 where the
// dialect does not store one.
func (self *BrushSide) PlaneIndex() int {
	offset, width, stored := self.planeField()
	if !stored {
		return -1
	}
	if width == 2 {
		// Plane references are unsigned in the 16-bit dialects.
		return int(binary.LittleEndian.Uint16(self.data[offset:]))
	}
	return self.readField(offset, width)
}

func (self *BrushSide) SetPlaneIndex(value int) {
	offset, width, stored := self.planeField()
	if stored {
		self.writeField(offset, width, value)
	}
}

// TextureIndex returns the index into the texture lump, or -1 where the
// dialect does not store one.
func (self *BrushSide) TextureIndex() int {
	offset, width, stored := self.textureField()
	if !stored {
		return -1
	}
	return self.readField(offset, width)
}

func (self *BrushSide) SetTextureIndex(value int) {
	offset, width, stored := self.textureField()
	if stored {
		self.writeField(offset, width, value)
	}
}

// FaceIndex returns the index into the face lump (Nightfire only), or
// -1 elsewhere.
func (self *BrushSide) FaceIndex() int {
	offset, width, stored := self.faceField()
	if !stored {
		return -1
	}
	return self.readField(offset, width)
}

func (self *BrushSide) SetFaceIndex(value int) {
	offset, width, stored := self.faceField()
	if stored {
		self.writeField(offset, width, value)
	}
}

// Texture resolves this side's texture record through the owning
// context, or false when the dialect stores no texture reference or the
// index is out of range.
func (self *BrushSide) Texture() (*Texture, bool) {
	index := self.TextureIndex()
	if index < 0 {
		return nil, false
	}
	textures := self.reader.Textures()
	if textures == nil {
		return nil, false
	}
	texture, err := textures.Get(index)
	if err != nil {
		return nil, false
	}
	return texture, true
}

// CopyBrushSide is the format-translating copy for brush sides, with the
// same semantics as CopyBrush.
func CopyBrushSide(src *BrushSide, format Format, lumpVersion int, reader LumpReader) (*BrushSide, error) {
	if src == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "copy brush side: nil source")
	}

	length, err := BrushSideStructLength(format, lumpVersion)
	if err != nil {
		return nil, err
	}

	dst := &BrushSide{
		data:    make([]byte, length),
		format:  format,
		version: lumpVersion,
		reader:  reader,
	}

	if src.format == format && src.version == lumpVersion &&
		len(src.data) == length {
		copy(dst.data, src.data)
		return dst, nil
	}

	if _, _, stored := src.planeField(); stored {
		dst.SetPlaneIndex(src.PlaneIndex())
	}
	if _, _, stored := src.textureField(); stored {
		dst.SetTextureIndex(src.TextureIndex())
	}
	if _, _, stored := src.faceField(); stored {
		dst.SetFaceIndex(src.FaceIndex())
	}
	return dst, nil
}
