package bsp

import (
	"github.com/Velocidex/ordereddict"
)

// FieldRole classifies what a record field means to cross-lump reference
// resolution.
type FieldRole int

const (
	// RoleFirstIndex is the start of a contiguous range in the target
	// lump, paired with a RoleCount field.
	RoleFirstIndex FieldRole = iota

	// RoleCount is the length of the range named by its paired
	// RoleFirstIndex field.
	RoleCount

	// RoleIndex is a single-element reference into the target lump.
	RoleIndex

	// RoleOffset is a byte offset into the target lump's encoded form
	// rather than an ordinal (the Source texture table convention).
	RoleOffset
)

func (self FieldRole) String() string {
	switch self {
	case RoleFirstIndex:
		return "first_index"
	case RoleCount:
		return "count"
	case RoleIndex:
		return "index"
	case RoleOffset:
		return "offset"
	}
	return "invalid"
}

// FieldRelation describes one reference field of a record kind: its role,
// the field it is paired with (empty for unpaired roles) and the lump the
// reference points into. References are weak relations, lookup only;
// mutating the target lump can leave them stale and that hazard belongs
// to the caller.
type FieldRelation struct {
	Role   FieldRole
	Pair   string
	Target LumpKind
}

// BrushFieldRelations returns the reference metadata of the Brush record,
// keyed by accessor name in declaration order. This table exists for
// introspection and tooling; the live accessors (Brush.Sides and friends)
// are written by hand against it, not driven through reflection.
func BrushFieldRelations() *ordereddict.Dict {
	return ordereddict.NewDict().
		Set("FirstSide", FieldRelation{
			Role:   RoleFirstIndex,
			Pair:   "SideCount",
			Target: KindBrushSides,
		}).
		Set("SideCount", FieldRelation{
			Role:   RoleCount,
			Pair:   "FirstSide",
			Target: KindBrushSides,
		}).
		Set("TextureIndex", FieldRelation{
			Role:   RoleIndex,
			Target: KindTextures,
		})
}

// BrushSideFieldRelations returns the reference metadata of the BrushSide
// record.
func BrushSideFieldRelations() *ordereddict.Dict {
	return ordereddict.NewDict().
		Set("TextureIndex", FieldRelation{
			Role:   RoleIndex,
			Target: KindTextures,
		})
}
