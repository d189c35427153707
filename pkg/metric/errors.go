package metric

import "errors"

var (
	// ErrTypeMismatch is returned when the fixed and moving volumes hold
	// different sample types.
	ErrTypeMismatch = errors.New("metric: fixed and moving volumes differ in sample type")

	// ErrUnsupportedType is returned for sample types the kernel does not
	// handle (64-bit integers, or an Image that is not a Grid).
	ErrUnsupportedType = errors.New("metric: unsupported sample type")

	// ErrPrecision is returned for an unknown accumulation precision.
	ErrPrecision = errors.New("metric: unknown accumulation precision")

	// ErrSplitAxis is returned when the split axis is not x, y or z.
	ErrSplitAxis = errors.New("metric: split axis must be 0, 1 or 2")
)
