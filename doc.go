// Package bsp implements the lump and record codec shared by the BSP map
// file family: Quake, Quake II, Quake III Arena and its licensees (Call of
// Duty, MOHAA, Star Trek Elite Force II, FAKK2), 007 Nightfire, and the
// Source engine revisions.
//
// Every format in the family stores a map as a directory of "lumps", each
// lump holding one homogeneous array of records or numbers. The formats
// disagree on byte offsets, field widths and which lumps exist; this
// package owns that disagreement. It decodes a raw lump into typed
// elements, dispatches field layout by format dialect and lump version,
// resolves cross-lump index references, and serializes elements back to
// the exact on-disk byte layout.
//
// All transformations are synchronous and in-memory. Containers are plain
// mutable values and are not safe for concurrent mutation; callers
// serialize access the same way they would for an ordinary slice.
package bsp
