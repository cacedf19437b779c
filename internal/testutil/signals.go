package testutil

import (
	"math"
	"math/rand"
	"slices"
)

// UniformWavelengths returns n wavelengths start, start+step, ... computed
// by multiplication so that no rounding error accumulates.
func UniformWavelengths(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// JitteredWavelengths returns n strictly increasing wavelengths starting at
// start whose gaps are drawn from [minGap, minGap*(1+spread)] with a fixed
// seed. The first gap is exactly minGap so the minimum gap is known.
func JitteredWavelengths(seed int64, start, minGap, spread float64, n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	rng := rand.New(rand.NewSource(seed))
	out[0] = start
	for i := 1; i < n; i++ {
		gap := minGap
		if i > 1 {
			gap += rng.Float64() * minGap * spread
		}
		out[i] = out[i-1] + gap
	}
	return out
}

// LinearFlux evaluates a + b*w for every wavelength.
func LinearFlux(wave []float64, a, b float64) []float64 {
	out := make([]float64, len(wave))
	for i, w := range wave {
		out[i] = a + b*w
	}
	return out
}

// EmissionLine returns a flat continuum with a Gaussian line of the given
// amplitude, centre and sigma added on top.
func EmissionLine(wave []float64, continuum, amplitude, centre, sigma float64) []float64 {
	out := make([]float64, len(wave))
	for i, w := range wave {
		d := (w - centre) / sigma
		out[i] = continuum + amplitude*math.Exp(-0.5*d*d)
	}
	return out
}

// Shuffled returns copies of wave and flux permuted with a fixed seed,
// keeping the pairs aligned.
func Shuffled(seed int64, wave, flux []float64) ([]float64, []float64) {
	w := slices.Clone(wave)
	f := slices.Clone(flux)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(w), func(i, j int) {
		w[i], w[j] = w[j], w[i]
		f[i], f[j] = f[j], f[i]
	})
	return w, f
}
