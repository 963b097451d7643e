package bsp

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func TestFamilyMembership(t *testing.T) {
	// Direct membership.
	assert.True(t, IsSubtypeOf(Quake2, FamilyQuake2))
	assert.True(t, IsSubtypeOf(SiN, FamilyQuake2))
	assert.True(t, IsSubtypeOf(Nightfire, FamilyNightfire))

	// Transitive membership: CoD is a CoD-family format, and the CoD
	// family derives from Quake3.
	assert.True(t, IsSubtypeOf(CoD, FamilyCoD))
	assert.True(t, IsSubtypeOf(CoD, FamilyQuake3))
	assert.True(t, IsSubtypeOf(CoD4, FamilyQuake3))
	assert.True(t, IsSubtypeOf(STEF2Demo, FamilyUberTools))
	assert.True(t, IsSubtypeOf(STEF2Demo, FamilyQuake3))

	// Non-membership.
	assert.False(t, IsSubtypeOf(CoD, FamilyQuake2))
	assert.False(t, IsSubtypeOf(Quake3, FamilyCoD))
	assert.False(t, IsSubtypeOf(Nightfire, FamilyQuake3))
	assert.False(t, IsSubtypeOf(FormatUnknown, FamilyQuake))

	// Every format belongs to itself.
	for _, format := range AllFormats() {
		assert.True(t, IsSubtypeOf(format, format), "%v", format)
	}
	assert.True(t, IsSubtypeOf(FamilySource, FamilySource))
}

func TestIsSource(t *testing.T) {
	sources := []Format{
		Source17, Source18, Source19, Source20, Source21,
		Source22, Source23, Source27, Vindictus, DMoMaM,
	}
	for _, format := range sources {
		assert.True(t, IsSource(format), "%v", format)
	}

	assert.False(t, IsSource(Quake3))
	assert.False(t, IsSource(Nightfire))
	assert.False(t, IsSource(CoD2))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "Quake3", Quake3.String())
	assert.Equal(t, "MOHAADemo", MOHAADemo.String())
	assert.Equal(t, "FamilySource", FamilySource.String())
	assert.Equal(t, "Format(9999)", Format(9999).String())
}

func TestAllFormatsCoversMembershipTable(t *testing.T) {
	formats := AllFormats()
	assert.Equal(t, len(variantFamilies), len(formats))
	for _, format := range formats {
		assert.NotEqual(t, "Unknown", format.String())
	}
}
