package grid

// PadEdge returns a copy of g padded by one cell on both sides of every axis.
// Padding cells replicate the nearest edge value, so a boundary cell sees its
// own value as its neighbour outside the domain.
func PadEdge(g *Grid) *Grid {
	ndim := g.NDim()
	pshape := make([]int, ndim)
	for i, s := range g.shape {
		pshape[i] = s + 2
	}
	out, _ := New(pshape...)

	coords := make([]int, ndim)
	for p := range out.Data {
		src := 0
		for i := 0; i < ndim; i++ {
			c := coords[i] - 1
			if c < 0 {
				c = 0
			} else if c >= g.shape[i] {
				c = g.shape[i] - 1
			}
			src += c * g.strides[i]
		}
		out.Data[p] = g.Data[src]

		// odometer increment over the padded shape
		for i := ndim - 1; i >= 0; i-- {
			coords[i]++
			if coords[i] < pshape[i] {
				break
			}
			coords[i] = 0
		}
	}
	return out
}

// PaddedOffsets maps every flat cell of shape to its flat offset inside the
// edge-padded grid, and returns the padded strides alongside.
func PaddedOffsets(shape []int) ([]int, []int) {
	pshape := make([]int, len(shape))
	for i, s := range shape {
		pshape[i] = s + 2
	}
	pstrides := stridesOf(pshape)
	strides := stridesOf(shape)

	n := 1
	for _, s := range shape {
		n *= s
	}
	offsets := make([]int, n)
	for flat := range offsets {
		rem, off := flat, 0
		for i, s := range strides {
			off += (rem/s + 1) * pstrides[i]
			rem %= s
		}
		offsets[flat] = off
	}
	return offsets, pstrides
}
