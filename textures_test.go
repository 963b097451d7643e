package bsp

import (
	"encoding/binary"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sebdah/goldie"
	assert "github.com/stretchr/testify/assert"
)

func TestTexturesNameTableEncode(t *testing.T) {
	textures := NewEmptyTextures(Source20, LumpInfo{})
	_, err := textures.AppendName("A/ONE")
	assert.NoError(t, err)
	_, err = textures.AppendName("B/TWO")
	assert.NoError(t, err)

	assert.Equal(t, []byte("A/ONE\x00B/TWO\x00"), textures.Bytes())
	assert.Equal(t, 12, textures.Length())

	assert.Equal(t, 0, textures.OffsetOf("A/ONE"))
	assert.Equal(t, 6, textures.OffsetOf("B/TWO"))
	assert.Equal(t, -1, textures.OffsetOf("C/THREE"))

	// Lookup is case-insensitive, ASCII fold only.
	assert.Equal(t, 6, textures.OffsetOf("b/two"))
	assert.Equal(t, 6, textures.OffsetOf("B/two"))
	assert.True(t, textures.Contains("a/one"))
	assert.Equal(t, 1, textures.IndexOf("b/TWO"))
	assert.Equal(t, -1, textures.IndexOf("missing"))
}

func TestTexturesNameTableDecode(t *testing.T) {
	textures, err := NewTextures([]byte("A/ONE\x00B/TWO\x00"), Source20, LumpInfo{})
	assert.NoError(t, err)
	assert.Equal(t, 2, textures.Count())

	first, err := textures.Get(0)
	assert.NoError(t, err)
	assert.Equal(t, "A/ONE", first.Name())

	// decode(encode(x)) is element-wise equal to x.
	reencoded, err := NewTextures(textures.Bytes(), Source20, LumpInfo{})
	assert.NoError(t, err)
	assert.Equal(t, textures.Count(), reencoded.Count())
	for i := 0; i < textures.Count(); i++ {
		a, _ := textures.Get(i)
		b, _ := reencoded.Get(i)
		assert.Equal(t, a.Name(), b.Name())
	}

	// A final unterminated span is still a name.
	textures, err = NewTextures([]byte("A\x00B"), Source20, LumpInfo{})
	assert.NoError(t, err)
	assert.Equal(t, 2, textures.Count())
	last, _ := textures.Get(1)
	assert.Equal(t, "B", last.Name())

	// Consecutive terminators produce empty names and survive the
	// round trip.
	textures, err = NewTextures([]byte("A\x00\x00B\x00"), Source20, LumpInfo{})
	assert.NoError(t, err)
	assert.Equal(t, 3, textures.Count())
	assert.Equal(t, []byte("A\x00\x00B\x00"), textures.Bytes())
}

func TestTexturesNameTableOffsetWalk(t *testing.T) {
	textures := NewEmptyTextures(Source20, LumpInfo{})
	for _, name := range []string{"A/ONE", "B/TWO", "C/THREE"} {
		_, err := textures.AppendName(name)
		assert.NoError(t, err)
	}

	// NameAtOffset inverts OffsetOf and both agree with the encoded
	// layout, including offsets that land inside a name's span.
	encoded := textures.Bytes()
	for i := 0; i < textures.Count(); i++ {
		texture, _ := textures.Get(i)
		offset := textures.OffsetOf(texture.Name())
		assert.Equal(t, texture.Name()+"\x00",
			string(encoded[offset:offset+len(texture.Name())+1]))

		name, ok := textures.NameAtOffset(offset)
		assert.True(t, ok)
		assert.Equal(t, texture.Name(), name)
	}

	name, ok := textures.NameAtOffset(8)
	assert.True(t, ok)
	assert.Equal(t, "B/TWO", name)

	_, ok = textures.NameAtOffset(len(encoded))
	assert.False(t, ok)
	_, ok = textures.NameAtOffset(-1)
	assert.False(t, ok)

	// Mutation keeps the walk consistent with the bytes.
	assert.NoError(t, textures.RemoveAt(0))
	assert.Equal(t, 0, textures.OffsetOf("B/TWO"))
	assert.Equal(t, []byte("B/TWO\x00C/THREE\x00"), textures.Bytes())
}

func TestTexturesFixedRecords(t *testing.T) {
	for _, testcase := range []struct {
		format       Format
		recordLength int
	}{
		{Quake3, 72},
		{MOHAA, 72},
		{CoD, 72},
		{Quake2, 76},
		{SiN, 76},
		{Nightfire, 64},
	} {
		textures := NewEmptyTextures(testcase.format, LumpInfo{})
		texture, err := textures.AppendName("textures/base/wall")
		assert.NoError(t, err, "%v", testcase.format)
		assert.Equal(t, testcase.recordLength, texture.Length(), "%v", testcase.format)
		assert.Equal(t, "textures/base/wall", texture.Name(), "%v", testcase.format)

		_, err = textures.AppendName("textures/base/floor")
		assert.NoError(t, err)
		assert.Equal(t, 2*testcase.recordLength, textures.Length(), "%v", testcase.format)

		decoded, err := NewTextures(textures.Bytes(), testcase.format, LumpInfo{})
		assert.NoError(t, err, "%v", testcase.format)
		assert.Equal(t, 2, decoded.Count())
		second, _ := decoded.Get(1)
		assert.Equal(t, "textures/base/floor", second.Name())
		assert.Equal(t, textures.Bytes(), decoded.Bytes(), "%v", testcase.format)
	}
}

func TestTexturesFixedRecordWindow(t *testing.T) {
	// The Quake II record keeps its name mid-record; the rest of the
	// window survives a rename untouched.
	window := make([]byte, 76)
	for i := range window {
		window[i] = 0xEE
	}
	copy(window[40:], "e1u1/floor\x00")
	window[51] = 0

	textures, err := NewTextures(window, Quake2, LumpInfo{})
	assert.NoError(t, err)
	texture, _ := textures.Get(0)
	assert.Equal(t, "e1u1/floor", texture.Name())

	texture.SetName("e1u1/wall")
	assert.Equal(t, "e1u1/wall", texture.Name())
	encoded := textures.Bytes()
	assert.Equal(t, byte(0xEE), encoded[0])
	assert.Equal(t, byte(0xEE), encoded[39])
	assert.Equal(t, byte(0xEE), encoded[72])
	// The name field itself is zero-padded past the new name.
	assert.Equal(t, byte(0), encoded[40+len("e1u1/wall")])
	assert.Equal(t, byte(0), encoded[71])
}

func TestTexturesFixedTruncated(t *testing.T) {
	_, err := NewTextures(make([]byte, 71), Quake3, LumpInfo{})
	assert.True(t, errors.Is(err, ErrTruncated))

	_, err = NewTextures(nil, Quake3, LumpInfo{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	// An unsupported dialect has no record layout to decode with.
	_, err = NewTextures(make([]byte, 72), FormatUnknown, LumpInfo{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func miptexFixture() *Textures {
	textures := NewEmptyTextures(Quake, LumpInfo{})

	brick, _ := textures.AppendName("brick")
	var mips [4][]byte
	for level, size := range []int{64, 16, 4, 1} {
		mips[level] = make([]byte, size)
		for i := range mips[level] {
			mips[level][i] = byte(i)
		}
	}
	mips[3][0] = 0xAB
	brick.SetPixelData(8, 8, mips)

	textures.AppendName("empty")
	return textures
}

func TestTexturesMiptexEncode(t *testing.T) {
	textures := miptexFixture()
	encoded := textures.Bytes()

	// count + offset table + header + 64+16+4+1 mip bytes.
	assert.Equal(t, 4+8+40+85, len(encoded))
	assert.Equal(t, textures.Length(), len(encoded))

	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(encoded))
	assert.Equal(t, int32(12), int32(binary.LittleEndian.Uint32(encoded[4:])))
	// The no-pixel-data slot holds -1 and contributes no body.
	assert.Equal(t, int32(-1), int32(binary.LittleEndian.Uint32(encoded[8:])))

	goldie.Assert(t, "TestTexturesMiptexEncode", encoded)
}

func TestTexturesMiptexEmptyOnly(t *testing.T) {
	textures := NewEmptyTextures(Quake, LumpInfo{})
	_, err := textures.AppendName("unused")
	assert.NoError(t, err)

	// One texture, no embedded pixel data: the blob is exactly the
	// count and one -1 offset slot.
	encoded := textures.Bytes()
	assert.Equal(t, 8, len(encoded))
	assert.Equal(t, 8, textures.Length())
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(encoded))
	assert.Equal(t, int32(-1), int32(binary.LittleEndian.Uint32(encoded[4:])))
}

func TestTexturesMiptexRoundTrip(t *testing.T) {
	textures := miptexFixture()

	decoded, err := NewTextures(textures.Bytes(), Quake, LumpInfo{})
	assert.NoError(t, err)
	assert.Equal(t, 2, decoded.Count())

	brick, err := decoded.Get(0)
	assert.NoError(t, err)
	assert.Equal(t, "brick", brick.Name())
	width, height := brick.Dimensions()
	assert.Equal(t, uint32(8), width)
	assert.Equal(t, uint32(8), height)
	assert.True(t, brick.HasPixelData())

	original, _ := textures.Get(0)
	for level := 0; level < 4; level++ {
		assert.Equal(t, original.Mipmap(level), brick.Mipmap(level), "level %d", level)
	}

	// The -1 slot decodes to an empty record: the name lived in the
	// dropped header, so it does not survive.
	empty, err := decoded.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, "", empty.Name())
	assert.False(t, empty.HasPixelData())

	// Re-encoding the decode reproduces the bytes.
	assert.Equal(t, textures.Bytes(), decoded.Bytes())
}

func TestTexturesMiptexMalformed(t *testing.T) {
	_, err := NewTextures([]byte{1, 2}, Quake, LumpInfo{})
	assert.True(t, errors.Is(err, ErrTruncated))

	// Negative count.
	bad := make([]byte, 4)
	binary.LittleEndian.PutUint32(bad, 0xFFFFFFFF)
	_, err = NewTextures(bad, Quake, LumpInfo{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	// Count promises more offsets than the blob holds.
	bad = make([]byte, 8)
	binary.LittleEndian.PutUint32(bad, 5)
	_, err = NewTextures(bad, Quake, LumpInfo{})
	assert.True(t, errors.Is(err, ErrTruncated))

	// Offset pointing past the blob.
	bad = make([]byte, 8)
	binary.LittleEndian.PutUint32(bad, 1)
	binary.LittleEndian.PutUint32(bad[4:], 100)
	_, err = NewTextures(bad, Quake, LumpInfo{})
	assert.True(t, errors.Is(err, ErrTruncated))

	// Header present but a mip block runs off the end.
	truncated := miptexFixture().Bytes()
	truncated = truncated[:len(truncated)-1]
	_, err = NewTextures(truncated, Quake, LumpInfo{})
	assert.True(t, errors.Is(err, ErrTruncated))

	// Empty lump is valid and empty.
	empty, err := NewTextures(make([]byte, 4), Quake, LumpInfo{})
	assert.NoError(t, err)
	assert.Equal(t, 0, empty.Count())
}

func TestTexturesElementOps(t *testing.T) {
	textures := NewEmptyTextures(Source20, LumpInfo{})
	for _, name := range []string{"one", "two"} {
		_, err := textures.AppendName(name)
		assert.NoError(t, err)
	}

	extra, err := textures.newTexture("zero")
	assert.NoError(t, err)
	assert.NoError(t, textures.InsertAt(0, extra))
	assert.Equal(t, 3, textures.Count())
	assert.Equal(t, 0, textures.IndexOf("ZERO"))

	_, err = textures.Get(3)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.True(t, errors.Is(textures.InsertAt(9, extra), ErrIndexOutOfRange))
	assert.True(t, errors.Is(textures.RemoveAt(-1), ErrIndexOutOfRange))
}
