package bsp

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Brush is a convex collision volume record. It is a view over its own
// fixed-size byte window; every accessor reads and writes the window
// through the field layout of the brush's (format, lump version) pair.
//
// A field a dialect does not store reads as -1 and its setter is a no-op.
// The -1 is purely the getter's "not applicable" sentinel; it is never
// written into storage.
type Brush struct {
	data    []byte
	format  Format
	version int
	reader  LumpReader
}

// BrushStructLength returns the on-disk record size for the given
// (format, lump version). An unrecognized pair fails with
// ErrUnsupportedFormat; there is no default layout to fall back to.
func BrushStructLength(format Format, lumpVersion int) (int, error) {
	switch {
	case IsSubtypeOf(format, FamilyCoD):
		return 4, nil
	case IsSubtypeOf(format, FamilyQuake2),
		IsSubtypeOf(format, FamilyQuake3),
		IsSubtypeOf(format, FamilyNightfire),
		IsSource(format):
		return 12, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedFormat,
		"brush struct length for %v version %d", format, lumpVersion)
}

// BrushLumpIndex returns the ordinal of the brush lump within the given
// dialect's lump directory, or false when the dialect has no brush lump.
func BrushLumpIndex(format Format) (int, bool) {
	return recordLumpIndex(KindBrushes, format)
}

// NewBrush builds a brush view over window, which must be exactly the
// struct length of the reader-supplied format.
func NewBrush(window []byte, info LumpInfo, reader LumpReader) (*Brush, error) {
	if reader == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "brush: nil reader context")
	}
	if window == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "brush: nil window")
	}

	length, err := BrushStructLength(reader.Format(), info.Version)
	if err != nil {
		return nil, err
	}
	if len(window) != length {
		return nil, errors.Wrapf(ErrTruncated,
			"brush: window is %d bytes, %v needs %d",
			len(window), reader.Format(), length)
	}

	return &Brush{
		data:    window,
		format:  reader.Format(),
		version: info.Version,
		reader:  reader,
	}, nil
}

// NewEmptyBrush builds a zero-initialized brush for the given context.
func NewEmptyBrush(info LumpInfo, reader LumpReader) (*Brush, error) {
	if reader == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "brush: nil reader context")
	}
	length, err := BrushStructLength(reader.Format(), info.Version)
	if err != nil {
		return nil, err
	}
	return NewBrush(make([]byte, length), info, reader)
}

func (self *Brush) Format() Format {
	return self.format
}

func (self *Brush) Version() int {
	return self.version
}

func (self *Brush) Length() int {
	return len(self.data)
}

func (self *Brush) Bytes() []byte {
	return self.data
}

// Field layout dispatch. Each resolver returns (offset, width, stored);
// the case order matters because STEF2 and CoD override their family's
// generic layout.

func (self *Brush) firstSideField() (int, int, bool) {
	switch {
	case IsSubtypeOf(self.format, FamilyCoD):
		// CoD brush sides are located by running total, not by index.
		return 0, 0, false
	case IsSubtypeOf(self.format, FamilyNightfire),
		IsSubtypeOf(self.format, STEF2),
		IsSubtypeOf(self.format, STEF2Demo):
		return 4, 4, true
	case IsSubtypeOf(self.format, FamilyQuake2),
		IsSubtypeOf(self.format, FamilyQuake3),
		IsSource(self.format):
		return 0, 4, true
	}
	return 0, 0, false
}

func (self *Brush) sideCountField() (int, int, bool) {
	switch {
	case IsSubtypeOf(self.format, FamilyCoD):
		return 0, 2, true
	case IsSubtypeOf(self.format, STEF2),
		IsSubtypeOf(self.format, STEF2Demo):
		return 0, 4, true
	case IsSubtypeOf(self.format, FamilyNightfire):
		return 8, 4, true
	case IsSubtypeOf(self.format, FamilyQuake2),
		IsSubtypeOf(self.format, FamilyQuake3),
		IsSource(self.format):
		return 4, 4, true
	}
	return 0, 0, false
}

func (self *Brush) textureField() (int, int, bool) {
	switch {
	case IsSubtypeOf(self.format, FamilyCoD):
		return 2, 2, true
	case IsSubtypeOf(self.format, FamilyQuake3):
		return 8, 4, true
	}
	return 0, 0, false
}

func (self *Brush) contentsField() (int, int, bool) {
	switch {
	case IsSubtypeOf(self.format, FamilyNightfire):
		return 0, 4, true
	case IsSubtypeOf(self.format, FamilyQuake2), IsSource(self.format):
		return 8, 4, true
	}
	return 0, 0, false
}

func (self *Brush) readField(offset, width int) int {
	switch width {
	case 2:
		return int(binary.LittleEndian.Uint16(self.data[offset:]))
	case 4:
		return int(int32(binary.LittleEndian.Uint32(self.data[offset:])))
	}
	return -1
}

func (self *Brush) writeField(offset, width, value int) {
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(self.data[offset:], uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(self.data[offset:], uint32(value))
	}
}

// FirstSide returns the index of this brush's first side within the
// brush-side lump, or -1 where the dialect does not store one.
func (self *Brush) FirstSide() int {
	offset, width, stored := self.firstSideField()
	if !stored {
		return -1
	}
	return self.readField(offset, width)
}

func (self *Brush) SetFirstSide(value int) {
	offset, width, stored := self.firstSideField()
	if stored {
		self.writeField(offset, width, value)
	}
}

// SideCount returns the number of sides referenced by this brush.
func (self *Brush) SideCount() int {
	offset, width, stored := self.sideCountField()
	if !stored {
		return -1
	}
	return self.readField(offset, width)
}

// SetSideCount stores the side count. The CoD layout keeps the count in
// 16 bits: a value above 65535 silently loses its upper bits there. This
// truncation is a wire-format fact, kept for compatibility; avoid counts
// that do not fit.
func (self *Brush) SetSideCount(value int) {
	offset, width, stored := self.sideCountField()
	if stored {
		self.writeField(offset, width, value)
	}
}

// TextureIndex returns the index into the texture lump, or -1 where the
// dialect does not store one.
func (self *Brush) TextureIndex() int {
	offset, width, stored := self.textureField()
	if !stored {
		return -1
	}
	return self.readField(offset, width)
}

func (self *Brush) SetTextureIndex(value int) {
	offset, width, stored := self.textureField()
	if stored {
		self.writeField(offset, width, value)
	}
}

// Contents returns the contents bitmask, or -1 where the dialect does
// not store one.
func (self *Brush) Contents() int {
	offset, width, stored := self.contentsField()
	if !stored {
		return -1
	}
	return self.readField(offset, width)
}

func (self *Brush) SetContents(value int) {
	offset, width, stored := self.contentsField()
	if stored {
		self.writeField(offset, width, value)
	}
}

// Sides returns a restartable iterator over this brush's sides in the
// sibling brush-side lump. The (first, count) fields and the sibling
// lump are re-read on every step, so mutations made between steps are
// visible on the next one. The reference is weak: a first/count range
// that has drifted out of the sibling lump's bounds simply ends the
// iteration early.
func (self *Brush) Sides() *BrushSideIterator {
	return &BrushSideIterator{brush: self}
}

// BrushSideIterator enumerates [FirstSide, FirstSide+SideCount) against
// the live brush-side lump.
type BrushSideIterator struct {
	brush *Brush
	pos   int
}

func (self *BrushSideIterator) Next() (*BrushSide, bool) {
	brush := self.brush
	first := brush.FirstSide()
	count := brush.SideCount()
	if first < 0 || count < 0 || self.pos >= count {
		return nil, false
	}

	lump := brush.reader.BrushSides()
	if lump == nil {
		return nil, false
	}

	side, err := lump.Get(first + self.pos)
	if err != nil {
		return nil, false
	}
	self.pos++
	return side, true
}

// Reset rewinds the iterator so the range can be walked again.
func (self *BrushSideIterator) Reset() {
	self.pos = 0
}

// CopyBrush translates src into the (format, lumpVersion) layout under
// reader's context. When the destination layout is the same as the
// source's the bytes are copied verbatim. Otherwise each named field is
// read through the source accessor and written through the destination
// accessor into a zero-initialized window: fields the destination does
// not store are dropped and their byte regions stay zero, and fields the
// source does not store are never written at all.
func CopyBrush(src *Brush, format Format, lumpVersion int, reader LumpReader) (*Brush, error) {
	if src == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "copy brush: nil source")
	}

	length, err := BrushStructLength(format, lumpVersion)
	if err != nil {
		return nil, err
	}

	dst := &Brush{
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

	if _, _, stored := src.firstSideField(); stored {
		dst.SetFirstSide(src.FirstSide())
	}
	if _, _, stored := src.sideCountField(); stored {
		dst.SetSideCount(src.SideCount())
	}
	if _, _, stored := src.textureField(); stored {
		dst.SetTextureIndex(src.TextureIndex())
	}
	if _, _, stored := src.contentsField(); stored {
		dst.SetContents(src.Contents())
	}
	return dst, nil
}
