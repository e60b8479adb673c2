package poisson

import "errors"

// Validation errors. All of them are returned before any cost evaluation.
var (
	// ErrShapeMismatch indicates u0, phi, fix or dx disagree in shape.
	ErrShapeMismatch = errors.New("poisson: shape mismatch")

	// ErrInvalidConfiguration indicates an unrecognized fix name or an
	// invalid spacing.
	ErrInvalidConfiguration = errors.New("poisson: invalid configuration")

	// ErrTypeConfiguration indicates a fix value of unsupported type or with
	// non-numeric elements.
	ErrTypeConfiguration = errors.New("poisson: fix must be a string or an array of numbers or booleans")
)
