// Package grid provides the dense n-dimensional arrays the solver works on.
//
// A [Grid] stores float64 values in row-major order together with its shape
// and strides. The same type holds the solution estimate u, the source term
// phi, and (as 0/1 values) a fixed-cell mask, which makes shape agreement a
// single [Grid.SameShape] check.
//
// # Example
//
//	u0, _ := grid.New(64, 64)
//	u0.Set(1.0, 0, 10)
//	padded := grid.PadEdge(u0) // shape (66, 66), edges replicated
//
// # Thread Safety
//
// Grids are plain values with no internal locking. Concurrent readers are
// fine; writers must be serialized by the caller.
package grid
