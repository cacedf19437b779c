package spectrum

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-rescale/dsp/core"
)

var (
	// ErrLengthMismatch indicates parallel columns of different lengths.
	ErrLengthMismatch = errors.New("spectrum: column length mismatch")
	// ErrNonFinite indicates a NaN or infinite wavelength.
	ErrNonFinite = errors.New("spectrum: non-finite wavelength")
)

// Spectrum is an ordered sequence of (wavelength, flux) samples.
//
// Wavelengths are sorted ascending. Ties are kept in their input order and
// are rejected later by the resampler.
type Spectrum struct {
	wave []float64
	flux []float64
}

// New copies wave and flux into a Spectrum sorted by wavelength.
// The sort is stable, so already-sorted input keeps its exact order.
func New(wave, flux []float64) (Spectrum, error) {
	if len(wave) != len(flux) {
		return Spectrum{}, fmt.Errorf("%w: %d wavelengths, %d fluxes", ErrLengthMismatch, len(wave), len(flux))
	}

	if ok, idx := core.AllFinite(wave); !ok {
		return Spectrum{}, fmt.Errorf("%w at row %d: %v", ErrNonFinite, idx, wave[idx])
	}

	s := Spectrum{
		wave: append([]float64{}, wave...),
		flux: append([]float64{}, flux...),
	}

	if !slices.IsSorted(s.wave) {
		s.sort()
	}

	return s, nil
}

func (s *Spectrum) sort() {
	order := make([]int, len(s.wave))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case s.wave[a] < s.wave[b]:
			return -1
		case s.wave[a] > s.wave[b]:
			return 1
		default:
			return 0
		}
	})

	wave := make([]float64, len(order))
	flux := make([]float64, len(order))
	for i, j := range order {
		wave[i] = s.wave[j]
		flux[i] = s.flux[j]
	}
	s.wave, s.flux = wave, flux
}

// Len returns the number of samples.
func (s Spectrum) Len() int { return len(s.wave) }

// Wave returns the wavelength column. The slice must not be modified.
func (s Spectrum) Wave() []float64 { return s.wave }

// Flux returns the flux column. The slice must not be modified.
func (s Spectrum) Flux() []float64 { return s.flux }

// Bounds returns the lowest and highest wavelength.
// ok is false for an empty spectrum.
func (s Spectrum) Bounds() (lo, hi float64, ok bool) {
	if len(s.wave) == 0 {
		return 0, 0, false
	}
	return s.wave[0], s.wave[len(s.wave)-1], true
}
