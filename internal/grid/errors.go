package grid

import "errors"

var (
	// ErrEmptyShape indicates a grid with zero dimensions was requested.
	ErrEmptyShape = errors.New("grid: shape must have at least one dimension")

	// ErrNonPositiveDim indicates a dimension of size zero or less.
	ErrNonPositiveDim = errors.New("grid: every dimension must be positive")

	// ErrDataLength indicates the backing slice does not match the shape.
	ErrDataLength = errors.New("grid: data length does not match shape")
)
