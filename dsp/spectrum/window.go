package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-rescale/dsp/core"
)

// Default operating range of the Gelato classifier, in Ångström.
const (
	DefaultMinWavelength = 3500.0
	DefaultMaxWavelength = 9000.0
)

// ErrInvalidWindow indicates a window with Min >= Max or non-finite bounds.
var ErrInvalidWindow = errors.New("spectrum: invalid trim window")

// Window is the open wavelength interval (Min, Max) accepted downstream.
type Window struct {
	Min float64
	Max float64
}

// DefaultWindow returns the 3500–9000 Å window.
func DefaultWindow() Window {
	return Window{Min: DefaultMinWavelength, Max: DefaultMaxWavelength}
}

// Validate checks that the window is finite and non-empty.
func (w Window) Validate() error {
	if !core.IsFinite(w.Min) || !core.IsFinite(w.Max) || w.Min >= w.Max {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidWindow, w.Min, w.Max)
	}
	return nil
}

// Contains reports whether Min < wave < Max.
func (w Window) Contains(wave float64) bool {
	return w.Min < wave && wave < w.Max
}

// Trim returns the samples of s whose wavelength lies strictly inside w.
// The result may be empty.
func Trim(s Spectrum, w Window) Spectrum {
	out := Spectrum{
		wave: make([]float64, 0, len(s.wave)),
		flux: make([]float64, 0, len(s.flux)),
	}

	for i, x := range s.wave {
		if w.Contains(x) {
			out.wave = append(out.wave, x)
			out.flux = append(out.flux, s.flux[i])
		}
	}

	return out
}
