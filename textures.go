package bsp

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// miptexHeaderLength is the fixed header of one embedded mip pyramid:
// 16 name bytes, width, height, and four mip level offsets.
const miptexHeaderLength = 40

// miptexLevels is the number of mip levels a pyramid stores, each a
// quarter of the previous level's pixel count.
const miptexLevels = 4

// Texture is one record of the texture lump. Depending on the owning
// strategy it is either a raw fixed-size window (the name is read and
// rewritten in place), a bare name (Source name table), or a name plus an
// embedded mip pyramid (Quake miptex).
type Texture struct {
	format  Format
	version int

	// Fixed-record strategy: the raw window. nil for the other
	// strategies.
	data []byte

	// Name-table and miptex strategies.
	name string

	// Miptex strategy.
	width  uint32
	height uint32
	mips   [miptexLevels][]byte
}

// texRecordLayout returns (record length, name offset, name field
// length) for the fixed-record strategy.
func texRecordLayout(format Format, lumpVersion int) (int, int, int, error) {
	switch {
	case IsSubtypeOf(format, FamilyQuake2):
		// The Quake II texinfo record: 32 bytes of axis vectors, flags,
		// value, then the 32-byte name and the next-frame link.
		return 76, 40, 32, nil
	case IsSubtypeOf(format, FamilyQuake3):
		// 64-byte shader path, surface flags, contents.
		return 72, 0, 64, nil
	case IsSubtypeOf(format, FamilyNightfire):
		return 64, 0, 64, nil
	}
	return 0, 0, 0, errors.Wrapf(ErrUnsupportedFormat,
		"texture record layout for %v version %d", format, lumpVersion)
}

// TexturesLumpIndex returns the ordinal of the texture lump within the
// given dialect's lump directory.
func TexturesLumpIndex(format Format) (int, bool) {
	return recordLumpIndex(KindTextures, format)
}

// Name returns the texture name with any padding trimmed.
func (self *Texture) Name() string {
	if self.data == nil {
		return self.name
	}
	_, offset, length, err := texRecordLayout(self.format, self.version)
	if err != nil {
		return ""
	}
	field := self.data[offset : offset+length]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

// SetName stores name. Under the fixed-record strategy the name is
// written into the record window zero-padded, truncated to the field
// width if it does not fit.
func (self *Texture) SetName(name string) {
	if self.data == nil {
		self.name = name
		return
	}
	_, offset, length, err := texRecordLayout(self.format, self.version)
	if err != nil {
		return
	}
	field := self.data[offset : offset+length]
	for i := range field {
		field[i] = 0
	}
	copy(field, name)
}

// Dimensions returns the pixel size of the embedded mip pyramid, or
// (0, 0) for textures without one.
func (self *Texture) Dimensions() (uint32, uint32) {
	return self.width, self.height
}

// Mipmap returns the pixel block of the given level (0 is full size), or
// nil when the texture carries no embedded pixel data.
func (self *Texture) Mipmap(level int) []byte {
	if level < 0 || level >= miptexLevels {
		return nil
	}
	return self.mips[level]
}

// HasPixelData reports whether this texture embeds a mip pyramid.
func (self *Texture) HasPixelData() bool {
	return self.mips[0] != nil
}

// SetPixelData installs a full-size pixel block and its downsampled
// levels. Level sizes must follow the quarter progression; this is not
// validated here because encode derives every offset from the actual
// block lengths.
func (self *Texture) SetPixelData(width, height uint32, mips [miptexLevels][]byte) {
	self.width = width
	self.height = height
	self.mips = mips
}

// Length returns the serialized size of this record under its owning
// strategy, excluding any shared table overhead (the miptex offset table
// is owned by the lump, not the record).
func (self *Texture) Length() int {
	if self.data != nil {
		return len(self.data)
	}
	if self.HasPixelData() {
		result := miptexHeaderLength
		for _, mip := range self.mips {
			result += len(mip)
		}
		return result
	}
	return len(self.name) + 1
}

// Bytes returns the fixed-record window, or nil for the strategies whose
// serialization is owned by the lump.
func (self *Texture) Bytes() []byte {
	return self.data
}

// texStrategy selects one of the three mutually exclusive texture lump
// encodings. The caller's declared format is authoritative; bytes are
// never sniffed.
type texStrategy int

const (
	texFixedRecords texStrategy = iota
	texMipPyramid
	texNameTable
)

func texStrategyFor(format Format) texStrategy {
	switch {
	case IsSubtypeOf(format, FamilyQuake):
		return texMipPyramid
	case IsSource(format):
		return texNameTable
	default:
		return texFixedRecords
	}
}

// Textures is the texture lump. Records have no stored offsets: the byte
// offset of each record is always the running sum of the serialized
// sizes of the records before it, identically during offset lookup and
// encoding.
type Textures struct {
	elements []*Texture
	format   Format
	info     LumpInfo
	strategy texStrategy
}

// NewTextures decodes a texture lump under the strategy of the declared
// format.
func NewTextures(data []byte, format Format, info LumpInfo) (*Textures, error) {
	if data == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "textures: nil data")
	}

	result := &Textures{
		format:   format,
		info:     info,
		strategy: texStrategyFor(format),
	}

	var err error
	switch result.strategy {
	case texMipPyramid:
		err = result.decodeMiptex(data)
	case texNameTable:
		result.decodeNameTable(data)
	default:
		err = result.decodeFixed(data)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// NewEmptyTextures builds an empty texture lump for programmatic
// construction.
func NewEmptyTextures(format Format, info LumpInfo) *Textures {
	return &Textures{
		format:   format,
		info:     info,
		strategy: texStrategyFor(format),
	}
}

func (self *Textures) decodeFixed(data []byte) error {
	recordLength, _, _, err := texRecordLayout(self.format, self.info.Version)
	if err != nil {
		return err
	}
	if len(data)%recordLength != 0 {
		return errors.Wrapf(ErrTruncated,
			"textures: %d bytes is not a multiple of record size %d",
			len(data), recordLength)
	}

	for offset := 0; offset < len(data); offset += recordLength {
		window := make([]byte, recordLength)
		copy(window, data[offset:offset+recordLength])
		self.elements = append(self.elements, &Texture{
			format:  self.format,
			version: self.info.Version,
			data:    window,
		})
	}
	return nil
}

// decodeNameTable splits on zero bytes: every terminator ends exactly
// one name, and a final unterminated span is still a name. This is the
// exact inverse of encodeNameTable.
func (self *Textures) decodeNameTable(data []byte) {
	start := 0
	for i, b := range data {
		if b == 0 {
			self.elements = append(self.elements, &Texture{
				format:  self.format,
				version: self.info.Version,
				name:    string(data[start:i]),
			})
			start = i + 1
		}
	}
	if start < len(data) {
		self.elements = append(self.elements, &Texture{
			format:  self.format,
			version: self.info.Version,
			name:    string(data[start:]),
		})
	}
}

func (self *Textures) decodeMiptex(data []byte) error {
	if len(data) < 4 {
		return errors.Wrapf(ErrTruncated,
			"textures: miptex lump of %d bytes has no record count", len(data))
	}

	count := int(int32(binary.LittleEndian.Uint32(data)))
	if count < 0 {
		return errors.Wrapf(ErrInvalidArgument,
			"textures: negative miptex count %d", count)
	}
	if len(data) < 4+4*count {
		return errors.Wrapf(ErrTruncated,
			"textures: miptex offset table needs %d bytes, lump has %d",
			4+4*count, len(data))
	}

	for i := 0; i < count; i++ {
		offset := int(int32(binary.LittleEndian.Uint32(data[4+4*i:])))
		if offset < 0 {
			// No embedded pixel data for this slot. The name lived in
			// the header, so it is gone too; the record survives empty.
			self.elements = append(self.elements, &Texture{
				format:  self.format,
				version: self.info.Version,
			})
			continue
		}

		texture, err := decodeOneMiptex(data, offset, self.format, self.info.Version)
		if err != nil {
			return err
		}
		self.elements = append(self.elements, texture)
	}
	return nil
}

func decodeOneMiptex(data []byte, offset int, format Format, version int) (*Texture, error) {
	if offset+miptexHeaderLength > len(data) {
		return nil, errors.Wrapf(ErrTruncated,
			"textures: miptex header at %d overruns %d-byte lump",
			offset, len(data))
	}

	header := data[offset:]
	nameField := header[:16]
	if i := bytes.IndexByte(nameField, 0); i >= 0 {
		nameField = nameField[:i]
	}

	result := &Texture{
		format:  format,
		version: version,
		name:    string(nameField),
		width:   binary.LittleEndian.Uint32(header[16:]),
		height:  binary.LittleEndian.Uint32(header[20:]),
	}

	for level := 0; level < miptexLevels; level++ {
		mipOffset := int(int32(binary.LittleEndian.Uint32(header[24+4*level:])))
		if mipOffset <= 0 {
			continue
		}

		size := (int64(result.width) * int64(result.height)) >> (2 * level)
		start := int64(offset) + int64(mipOffset)
		if start+size > int64(len(data)) {
			return nil, errors.Wrapf(ErrTruncated,
				"textures: %q mip level %d needs bytes [%d, %d), lump has %d",
				result.name, level, start, start+size, len(data))
		}

		mip := make([]byte, size)
		copy(mip, data[start:start+size])
		result.mips[level] = mip
	}
	return result, nil
}

func (self *Textures) Info() LumpInfo {
	return self.info
}

func (self *Textures) Format() Format {
	return self.format
}

func (self *Textures) Length() int {
	switch self.strategy {
	case texMipPyramid:
		result := 4 * (len(self.elements) + 1)
		for _, texture := range self.elements {
			if texture.HasPixelData() {
				result += texture.Length()
			}
		}
		return result
	default:
		result := 0
		for _, texture := range self.elements {
			result += texture.Length()
		}
		return result
	}
}

// Bytes encodes the current records under the owning strategy.
func (self *Textures) Bytes() []byte {
	switch self.strategy {
	case texMipPyramid:
		return self.encodeMiptex()
	case texNameTable:
		return self.encodeNameTable()
	default:
		result := make([]byte, 0, self.Length())
		for _, texture := range self.elements {
			result = append(result, texture.data...)
		}
		return result
	}
}

// encodeNameTable writes every name followed by exactly one zero byte in
// record order. OffsetOf and NameAtOffset walk this same layout.
func (self *Textures) encodeNameTable() []byte {
	result := make([]byte, 0, self.Length())
	for _, texture := range self.elements {
		result = append(result, texture.Name()...)
		result = append(result, 0)
	}
	return result
}

// encodeMiptex rebuilds the leading count and offset table from scratch;
// every offset is the running accumulation of the bodies before it,
// starting immediately after the (count+1)*4 byte header block. Records
// without pixel data write -1 and no body.
func (self *Textures) encodeMiptex() []byte {
	count := len(self.elements)
	result := make([]byte, 4*(count+1), self.Length())
	binary.LittleEndian.PutUint32(result, uint32(count))

	for i, texture := range self.elements {
		if !texture.HasPixelData() {
			binary.LittleEndian.PutUint32(result[4+4*i:], uint32(0xFFFFFFFF))
			continue
		}

		binary.LittleEndian.PutUint32(result[4+4*i:], uint32(len(result)))
		result = appendOneMiptex(result, texture)
	}
	return result
}

func appendOneMiptex(result []byte, texture *Texture) []byte {
	var header [miptexHeaderLength]byte
	copy(header[:16], texture.name)
	binary.LittleEndian.PutUint32(header[16:], texture.width)
	binary.LittleEndian.PutUint32(header[20:], texture.height)

	mipOffset := miptexHeaderLength
	for level := 0; level < miptexLevels; level++ {
		if texture.mips[level] == nil {
			continue
		}
		binary.LittleEndian.PutUint32(header[24+4*level:], uint32(mipOffset))
		mipOffset += len(texture.mips[level])
	}

	result = append(result, header[:]...)
	for level := 0; level < miptexLevels; level++ {
		result = append(result, texture.mips[level]...)
	}
	return result
}

func (self *Textures) Count() int {
	return len(self.elements)
}

func (self *Textures) Get(index int) (*Texture, error) {
	if index < 0 || index >= len(self.elements) {
		return nil, errors.Wrapf(ErrIndexOutOfRange,
			"textures: index %d of %d", index, len(self.elements))
	}
	return self.elements[index], nil
}

// Append adds a texture built for this lump's strategy.
func (self *Textures) Append(texture *Texture) {
	self.elements = append(self.elements, texture)
}

// AppendName adds a texture by name, allocating a fixed record window
// when the strategy needs one.
func (self *Textures) AppendName(name string) (*Texture, error) {
	texture, err := self.newTexture(name)
	if err != nil {
		return nil, err
	}
	self.elements = append(self.elements, texture)
	return texture, nil
}

func (self *Textures) newTexture(name string) (*Texture, error) {
	texture := &Texture{format: self.format, version: self.info.Version}
	if self.strategy == texFixedRecords {
		recordLength, _, _, err := texRecordLayout(self.format, self.info.Version)
		if err != nil {
			return nil, err
		}
		texture.data = make([]byte, recordLength)
	}
	texture.SetName(name)
	return texture, nil
}

func (self *Textures) InsertAt(index int, texture *Texture) error {
	if index < 0 || index > len(self.elements) {
		return errors.Wrapf(ErrIndexOutOfRange,
			"textures: insert at %d of %d", index, len(self.elements))
	}
	self.elements = append(self.elements, nil)
	copy(self.elements[index+1:], self.elements[index:])
	self.elements[index] = texture
	return nil
}

func (self *Textures) RemoveAt(index int) error {
	if index < 0 || index >= len(self.elements) {
		return errors.Wrapf(ErrIndexOutOfRange,
			"textures: remove at %d of %d", index, len(self.elements))
	}
	self.elements = append(self.elements[:index], self.elements[index+1:]...)
	return nil
}

// foldASCII lowercases A-Z only. Texture name comparison is
// case-insensitive with a fixed ASCII fold; bytes outside ASCII compare
// verbatim so results never depend on locale.
func foldASCII(s string) string {
	folded := []byte(s)
	changed := false
	for i, b := range folded {
		if b >= 'A' && b <= 'Z' {
			folded[i] = b + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(folded)
}

// IndexOf returns the position of the first texture whose name matches
// case-insensitively, or -1.
func (self *Textures) IndexOf(name string) int {
	folded := foldASCII(name)
	for i, texture := range self.elements {
		if foldASCII(texture.Name()) == folded {
			return i
		}
	}
	return -1
}

func (self *Textures) Contains(name string) bool {
	return self.IndexOf(name) >= 0
}

// OffsetOf returns the byte offset of the named texture within the
// encoded name table: the sum of (length + 1) over every name before it.
// Returns -1 when absent. Other record kinds reference textures by this
// offset rather than by ordinal, so the walk must stay exactly
// consistent with Bytes.
func (self *Textures) OffsetOf(name string) int {
	folded := foldASCII(name)
	offset := 0
	for _, texture := range self.elements {
		current := texture.Name()
		if foldASCII(current) == folded {
			return offset
		}
		offset += len(current) + 1
	}
	return -1
}

// NameAtOffset is the inverse walk: it returns the name whose encoded
// span (terminator included) covers the given byte offset.
func (self *Textures) NameAtOffset(offset int) (string, bool) {
	if offset < 0 {
		return "", false
	}
	running := 0
	for _, texture := range self.elements {
		name := texture.Name()
		running += len(name) + 1
		if offset < running {
			return name, true
		}
	}
	return "", false
}
