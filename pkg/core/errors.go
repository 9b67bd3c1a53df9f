package core

import "errors"

var (
	// ErrInvalidConfiguration is returned when sampler or render settings
	// cannot produce a render (non-square sample counts, empty screens, ...).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDegenerateGeometry is returned when a primitive cannot be intersected
	// meaningfully, such as a zero-radius sphere or a plane without a normal.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)
