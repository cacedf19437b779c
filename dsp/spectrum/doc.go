// Package spectrum provides the wavelength/flux data model used by the
// rescaling pipeline.
//
// A [Spectrum] is an immutable pair of parallel wavelength and flux slices
// sorted by ascending wavelength. A [MultiEpoch] additionally tags every
// row with an observation epoch; [Split] partitions it into one
// [Spectrum] per distinct epoch. [Trim] restricts a spectrum to an
// open [Window] of wavelengths.
//
// All functions in this package are pure and allocate fresh slices for
// their results.
package spectrum
