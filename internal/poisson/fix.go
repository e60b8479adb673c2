package poisson

import (
	"fmt"

	"github.com/san-kum/poisson/internal/grid"
)

// FixBounds fixes every cell on the outer boundary of the grid.
const FixBounds = "bounds"

// BoundsMask marks the first and last index along every axis as fixed.
func BoundsMask(shape []int) []bool {
	g, err := grid.New(shape...)
	if err != nil {
		return nil
	}
	mask := make([]bool, g.Len())
	for i := range mask {
		mask[i] = g.IsBoundary(i)
	}
	return mask
}

// resolveFix turns the user-facing fix value into a boolean mask of the
// given shape. Numeric values are fixed when nonzero.
//
// Accepted values: nil (same as FixBounds), a fix name, *grid.Grid, []bool,
// []float64, []int, and nested []any of numbers or booleans as produced by
// YAML or JSON decoding. Flat slices are read in row-major order.
func resolveFix(fix any, shape []int) ([]bool, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}

	switch v := fix.(type) {
	case nil:
		return BoundsMask(shape), nil
	case string:
		if v == FixBounds {
			return BoundsMask(shape), nil
		}
		return nil, fmt.Errorf("%w: unknown fix value %q", ErrInvalidConfiguration, v)
	case *grid.Grid:
		if !grid.ShapeEqual(v.Shape(), shape) {
			return nil, fmt.Errorf("%w: fix %v and u0 %v must have the same shape", ErrShapeMismatch, v.Shape(), shape)
		}
		return nonzero(v.Data), nil
	case []bool:
		if len(v) != n {
			return nil, flatMismatch(len(v), shape)
		}
		mask := make([]bool, n)
		copy(mask, v)
		return mask, nil
	case []float64:
		if len(v) != n {
			return nil, flatMismatch(len(v), shape)
		}
		return nonzero(v), nil
	case []int:
		if len(v) != n {
			return nil, flatMismatch(len(v), shape)
		}
		mask := make([]bool, n)
		for i, x := range v {
			mask[i] = x != 0
		}
		return mask, nil
	case []any:
		values, fshape, err := flattenAny(v)
		if err != nil {
			return nil, err
		}
		if !grid.ShapeEqual(fshape, shape) {
			if len(fshape) == 1 && fshape[0] == n {
				return nonzero(values), nil
			}
			return nil, fmt.Errorf("%w: fix %v and u0 %v must have the same shape", ErrShapeMismatch, fshape, shape)
		}
		return nonzero(values), nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrTypeConfiguration, fix)
}

func flatMismatch(got int, shape []int) error {
	return fmt.Errorf("%w: fix has %d elements, u0 %v", ErrShapeMismatch, got, shape)
}

func nonzero(values []float64) []bool {
	mask := make([]bool, len(values))
	for i, x := range values {
		mask[i] = x != 0
	}
	return mask
}

// flattenAny flattens a rectangular nested list into row-major values and
// its shape.
func flattenAny(list []any) ([]float64, []int, error) {
	if len(list) == 0 {
		return nil, []int{0}, nil
	}

	if _, nested := list[0].([]any); !nested {
		values := make([]float64, len(list))
		for i, e := range list {
			x, err := scalar(e)
			if err != nil {
				return nil, nil, err
			}
			values[i] = x
		}
		return values, []int{len(list)}, nil
	}

	var (
		values []float64
		inner  []int
	)
	for i, e := range list {
		sub, ok := e.([]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: fix is not rectangular", ErrShapeMismatch)
		}
		sv, ss, err := flattenAny(sub)
		if err != nil {
			return nil, nil, err
		}
		if i == 0 {
			inner = ss
		} else if !grid.ShapeEqual(inner, ss) {
			return nil, nil, fmt.Errorf("%w: fix is not rectangular", ErrShapeMismatch)
		}
		values = append(values, sv...)
	}
	return values, append([]int{len(list)}, inner...), nil
}

func scalar(e any) (float64, error) {
	switch x := e.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	}
	return 0, fmt.Errorf("%w: element %v of type %T", ErrTypeConfiguration, e, e)
}
