package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rescale/dsp/core"
	"github.com/cwbudde/algo-rescale/dsp/interp"
	"github.com/cwbudde/algo-rescale/dsp/spectrum"
)

var (
	// ErrInsufficientData indicates fewer than two samples to regrid.
	ErrInsufficientData = errors.New("resample: insufficient data")
	// ErrDegenerateGrid indicates a zero, negative or non-finite step,
	// i.e. duplicate or non-increasing wavelengths.
	ErrDegenerateGrid = errors.New("resample: degenerate grid")
	// ErrGridTooLarge indicates a grid exceeding the configured point cap.
	ErrGridTooLarge = errors.New("resample: grid too large")
)

// DefaultMaxPoints caps the grid size unless overridden by WithMaxPoints.
const DefaultMaxPoints = 10_000_000

// endTolerance is the fraction of a step within which the last grid point
// is considered to coincide with the exclusive upper bound. It absorbs the
// few-ulp shortfall of a measured step accumulated over millions of bins.
const endTolerance = 1e-6

type config struct {
	maxPoints int
}

// Option configures the resampler.
type Option func(*config)

// WithMaxPoints overrides the maximum number of grid points.
func WithMaxPoints(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxPoints = n
		}
	}
}

func defaultConfig() config {
	return config{maxPoints: DefaultMaxPoints}
}

// Result is a regridded spectrum together with the grid parameters.
type Result struct {
	Spectrum spectrum.Spectrum
	Start    float64
	Step     float64
}

// MinGap returns the smallest difference between consecutive wavelengths.
func MinGap(wave []float64) (float64, error) {
	n := len(wave)
	if n < 2 {
		return 0, fmt.Errorf("%w: %d points, need at least 2", ErrInsufficientData, n)
	}

	// gaps = wave[1:] - wave[:n-1]
	gaps := make([]float64, n-1)
	vecmath.ScaleBlock(gaps, wave[:n-1], -1)
	vecmath.AddBlockInPlace(gaps, wave[1:])

	step, pos := gaps[0], 0
	for i, g := range gaps {
		if math.IsNaN(g) {
			step, pos = g, i
			break
		}
		if g < step {
			step, pos = g, i
		}
	}

	if !(step > 0) || !core.IsFinite(step) {
		return 0, fmt.Errorf("%w: step %v between wavelengths %v and %v",
			ErrDegenerateGrid, step, wave[pos], wave[pos+1])
	}

	return step, nil
}

// Grid returns start, start+step, ... up to but excluding stop.
// When stop lies within a tiny fraction of a step of a grid point, that
// point is treated as stop and excluded, so floating-point drift cannot
// add a near-duplicate of stop.
func Grid(start, stop, step float64) []float64 {
	if !(step > 0) || !(start < stop) {
		return nil
	}

	n := gridLen((stop-start)/step)
	out := make([]float64, n)
	for k := range out {
		out[k] = start + float64(k)*step
	}

	return out
}

// gridLen returns the number of points k >= 0 with k < span, counting a
// span within endTolerance of an integer as that integer.
func gridLen(span float64) int {
	r := math.Round(span)
	if r >= 1 && math.Abs(span-r) <= endTolerance {
		return int(r)
	}
	return int(math.Floor(span)) + 1
}

// Uniform regrids s onto evenly spaced wavelengths with the minimum input
// gap as step. s must hold at least two samples with strictly increasing
// wavelengths.
func Uniform(s spectrum.Spectrum, opts ...Option) (Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	wave, flux := s.Wave(), s.Flux()

	step, err := MinGap(wave)
	if err != nil {
		return Result{}, err
	}

	start, stop := wave[0], wave[len(wave)-1]
	if span := (stop - start) / step; span > float64(cfg.maxPoints) {
		return Result{}, fmt.Errorf("%w: %.0f points at step %v exceeds %d",
			ErrGridTooLarge, span, step, cfg.maxPoints)
	}

	grid := Grid(start, stop, step)

	lin, err := interp.NewLinear(wave, flux)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDegenerateGrid, err)
	}

	out, err := lin.EvalAll(grid, nil)
	if err != nil {
		return Result{}, err
	}

	rs, err := spectrum.New(grid, out)
	if err != nil {
		return Result{}, err
	}

	return Result{Spectrum: rs, Start: start, Step: step}, nil
}
