// Package gradopt provides first-order minimizers for black-box cost
// functions that return a loss and its gradient.
//
// The package defines:
//
//   - [CostFunc]: pure mapping x -> (loss, gradient)
//   - [Optimizer]: single-method capability, Minimize(ctx, cost, x0)
//   - [Momentum]: heavy-ball gradient descent with adaptive step size
//   - [StepSearch]: golden-section line search along a direction
//
// # Example
//
//	opt := gradopt.NewMomentum(gradopt.DefaultConfig())
//	res, err := opt.Minimize(ctx, cost, x0)
//	fmt.Println(res.Status, res.F)
//
// # Cancellation
//
// Minimize checks its context once per outer iteration. Cancellation is not
// an error: the loop stops with status [Interrupted] and the best point seen
// so far is returned.
//
// # Thread Safety
//
// A [Momentum] value only holds immutable configuration; every Minimize call
// owns its run state, so one optimizer can serve concurrent calls as long as
// the registered observers tolerate it.
package gradopt
