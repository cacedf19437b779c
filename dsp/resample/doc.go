// Package resample regrids a non-uniformly sampled spectrum onto evenly
// spaced wavelength bins.
//
// [Uniform] picks the finest spacing present in the input (the minimum gap
// between consecutive wavelengths) as the output step, lays out the grid
//
//	w[k] = w[0] + k*step,  w[k] < w[n-1]
//
// and fills it by piecewise-linear interpolation of the input flux. The
// grid never leaves the input's wavelength range, so no extrapolation is
// ever needed.
//
// Grid wavelengths are not rounded here; rounding for presentation is the
// writer's concern.
//
// Common workflows:
//   - MinGap(wave) to inspect the step that will be chosen
//   - Grid(start, stop, step) to lay out a grid explicitly
//   - Uniform(s, opts...) to regrid a whole spectrum
package resample
