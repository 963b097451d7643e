package bsp

// LumpInfo describes one entry of a BSP file's lump directory. The codec
// itself only consumes Version, which selects the field layout revision
// within a format; Offset, Length and Ident belong to the file container
// and are carried through untouched.
type LumpInfo struct {
	Version int
	Offset  int64
	Length  int64
	Ident   [4]byte
}

// Lump is the contract every decoded lump satisfies. Length is always
// computed from the live elements, never cached: mutating an element is
// immediately visible in both Length and Bytes.
type Lump interface {
	// Length returns the serialized size in bytes.
	Length() int

	// Bytes deterministically encodes the current elements to the
	// on-disk layout.
	Bytes() []byte

	// Info returns the lump directory metadata this lump was decoded
	// with.
	Info() LumpInfo
}

// LumpReader is the owning context a record view queries while resolving
// cross-lump references. The file container implements it for real maps;
// Bsp is a minimal in-memory implementation for building maps
// programmatically and for tests.
type LumpReader interface {
	Format() Format
	BrushSides() *RecordLump[*BrushSide]
	Textures() *Textures
}

// Bsp owns a map's decoded lumps and hands them to each other's record
// views during reference resolution.
type Bsp struct {
	format     Format
	brushes    *RecordLump[*Brush]
	brushSides *RecordLump[*BrushSide]
	textures   *Textures
}

func NewBsp(format Format) *Bsp {
	return &Bsp{format: format}
}

func (self *Bsp) Format() Format {
	return self.format
}

func (self *Bsp) Brushes() *RecordLump[*Brush] {
	return self.brushes
}

func (self *Bsp) BrushSides() *RecordLump[*BrushSide] {
	return self.brushSides
}

func (self *Bsp) Textures() *Textures {
	return self.textures
}

// LoadBrushes decodes data as this map's brush lump and installs it.
func (self *Bsp) LoadBrushes(data []byte, info LumpInfo) (*RecordLump[*Brush], error) {
	length, err := BrushStructLength(self.format, info.Version)
	if err != nil {
		return nil, err
	}
	lump, err := decodeRecordLump(data, length, info, self, NewBrush)
	if err != nil {
		return nil, err
	}
	self.brushes = lump
	return lump, nil
}

// LoadBrushSides decodes data as this map's brush-side lump and installs
// it.
func (self *Bsp) LoadBrushSides(data []byte, info LumpInfo) (*RecordLump[*BrushSide], error) {
	length, err := BrushSideStructLength(self.format, info.Version)
	if err != nil {
		return nil, err
	}
	lump, err := decodeRecordLump(data, length, info, self, NewBrushSide)
	if err != nil {
		return nil, err
	}
	self.brushSides = lump
	return lump, nil
}

// LoadTextures decodes data as this map's texture lump and installs it.
func (self *Bsp) LoadTextures(data []byte, info LumpInfo) (*Textures, error) {
	lump, err := NewTextures(data, self.format, info)
	if err != nil {
		return nil, err
	}
	self.textures = lump
	return lump, nil
}
