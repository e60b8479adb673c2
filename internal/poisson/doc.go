// Package poisson solves the discrete Poisson equation
//
//	∇²u = φ
//
// on an n-dimensional regular grid by minimizing the squared residual of the
// finite-difference Laplacian with a [gradopt.Optimizer].
//
// The residual at a cell uses its two neighbours along every axis, with the
// grid padded by edge replication, so boundary cells see their own value
// outside the domain. Cells marked in the fixed mask contribute no residual
// and receive no gradient: they keep their initial value, which is how
// Dirichlet boundary conditions are expressed.
//
// # Example
//
//	u0, _ := grid.Full(0, 64, 64)
//	phi := sources.Gaussian(u0.Shape(), 1, 0.2)
//	u, err := poisson.Solve(ctx, u0, phi, poisson.FixBounds, nil)
package poisson
