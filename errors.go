package bsp

import (
	"github.com/cockroachdb/errors"
)

// Decode and element access errors. Sites wrap these with context; callers
// match with errors.Is.
var (
	// ErrInvalidArgument is returned when a decode factory receives a nil
	// byte source or an argument outside its domain.
	ErrInvalidArgument = errors.New("bsp: invalid argument")

	// ErrUnsupportedFormat is returned when a struct length or field
	// layout is requested for a (format, lump version) pair this package
	// does not know. It is never silently defaulted.
	ErrUnsupportedFormat = errors.New("bsp: unsupported format")

	// ErrIndexOutOfRange is returned for element access beyond the
	// current sequence bounds.
	ErrIndexOutOfRange = errors.New("bsp: index out of range")

	// ErrTruncated is returned when a lump's byte blob is shorter than
	// the format requires. Decode is all-or-nothing: no partial result is
	// produced.
	ErrTruncated = errors.New("bsp: truncated lump")
)
