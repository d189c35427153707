package ncc

import "errors"

var (
	// ErrInvalidRadius is returned for a negative window radius.
	ErrInvalidRadius = errors.New("ncc: window radius must be non-negative")

	// ErrExtent is returned when the input extent reaches outside either
	// volume.
	ErrExtent = errors.New("ncc: input extent outside volume bounds")
)
