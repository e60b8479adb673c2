package gradopt

import "errors"

var (
	// ErrEmptyPoint indicates Minimize was called with a zero-length x0.
	ErrEmptyPoint = errors.New("gradopt: initial point is empty")

	// ErrGradientLength indicates the cost function returned a gradient whose
	// length differs from the point it was evaluated at.
	ErrGradientLength = errors.New("gradopt: gradient length does not match point")

	// ErrInvalidConfig indicates a non-positive limit or an out-of-range alpha.
	ErrInvalidConfig = errors.New("gradopt: invalid optimizer configuration")
)
