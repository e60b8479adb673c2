// Package viz renders solved grids and run histories for the terminal.
//
//   - [Heatmap]: shaded view of a 2-D grid, the middle plane of a 3-D or
//     higher grid, or a line plot of a 1-D grid
//   - [Contour]: Braille iso-lines of the same plane
//   - [Convergence]: log10 of the best loss per iteration
//   - [Summary]: styled panel of a stored run
//
// Colors come from the current [Theme]; five ramps are built in.
package viz
