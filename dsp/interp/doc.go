// Package interp provides piecewise-linear interpolation over tabulated,
// non-uniformly spaced samples.
//
// [Linear] holds a strictly increasing abscissa table and evaluates the
// straight line through the two samples bracketing a query:
//
//	y(x) = y[i] + (x - x[i]) * (y[i+1] - y[i]) / (x[i+1] - x[i])
//
// Queries that coincide with a tabulated abscissa return the tabulated
// ordinate exactly. There is no extrapolation: queries outside
// [x[0], x[n-1]] fail with [ErrOutOfRange].
package interp
