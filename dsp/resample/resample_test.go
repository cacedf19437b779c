package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rescale/dsp/spectrum"
	"github.com/cwbudde/algo-rescale/internal/testutil"
)

func mustSpectrum(t *testing.T, wave, flux []float64) spectrum.Spectrum {
	t.Helper()
	s, err := spectrum.New(wave, flux)
	if err != nil {
		t.Fatalf("spectrum.New() error = %v", err)
	}
	return s
}

func TestMinGap(t *testing.T) {
	got, err := MinGap([]float64{3600, 3602, 3602.5, 3610})
	if err != nil {
		t.Fatalf("MinGap() error = %v", err)
	}
	if got != 0.5 {
		t.Fatalf("MinGap() = %v, want 0.5", got)
	}
}

func TestMinGapErrors(t *testing.T) {
	tests := []struct {
		name string
		wave []float64
		want error
	}{
		{name: "empty", wave: nil, want: ErrInsufficientData},
		{name: "single", wave: []float64{4000}, want: ErrInsufficientData},
		{name: "duplicate", wave: []float64{4000, 4001, 4001}, want: ErrDegenerateGrid},
		{name: "descending", wave: []float64{4002, 4001}, want: ErrDegenerateGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MinGap(tt.wave); !errors.Is(err, tt.want) {
				t.Fatalf("MinGap() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGridHalfOpen(t *testing.T) {
	got := Grid(3600, 4600, 250)
	testutil.RequireSliceNearlyEqual(t, got, []float64{3600, 3850, 4100, 4350}, 0)

	if got := Grid(3600, 4600, 1000); len(got) != 1 || got[0] != 3600 {
		t.Fatalf("Grid() = %v, want [3600]", got)
	}

	if got := Grid(1, 1, 0.5); got != nil {
		t.Fatalf("Grid() on empty range = %v, want nil", got)
	}
	if got := Grid(1, 2, 0); got != nil {
		t.Fatalf("Grid() with zero step = %v, want nil", got)
	}
}

func TestGridDoesNotDuplicateStop(t *testing.T) {
	// 2*step lands 2e-13 below stop and must be treated as stop itself.
	got := Grid(0, 1, 0.5-1e-13)
	if len(got) != 2 {
		t.Fatalf("len(Grid) = %d, want 2: %v", len(got), got)
	}
}

func TestGridLongDriftProneRange(t *testing.T) {
	// 0.1 is not representable, so the measured step falls a few ulps
	// short and 39999 steps land just below stop.
	wave := testutil.UniformWavelengths(4000.1, 0.1, 40000)
	step, err := MinGap(wave)
	if err != nil {
		t.Fatalf("MinGap() error = %v", err)
	}

	got := Grid(wave[0], wave[len(wave)-1], step)
	if len(got) != len(wave)-1 {
		t.Fatalf("len(Grid) = %d, want %d (last %v)", len(got), len(wave)-1, got[len(got)-1])
	}
	if last := got[len(got)-1]; math.Abs(last-7999.9) > 1e-6 {
		t.Fatalf("last grid point = %v, want 7999.9", last)
	}
}

func TestGridKeepsPointJustBelowStop(t *testing.T) {
	// span 3.5: the point at 3*step is half a step below stop.
	got := Grid(0, 3.5, 1)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 1, 2, 3}, 0)
}

func TestUniformLongUniformRoundTrip(t *testing.T) {
	wave := testutil.UniformWavelengths(4000.1, 0.1, 40000)
	flux := testutil.LinearFlux(wave, 1, 1e-3)

	res, err := Uniform(mustSpectrum(t, wave, flux))
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}
	if n := res.Spectrum.Len(); n != len(wave)-1 {
		t.Fatalf("Uniform() returned %d points, want %d", n, len(wave)-1)
	}
	for i, w := range res.Spectrum.Wave() {
		if math.Abs(w-wave[i]) > 1e-6 {
			t.Fatalf("wave[%d] = %v, want %v", i, w, wave[i])
		}
	}
}

func TestUniformScenario(t *testing.T) {
	raw := mustSpectrum(t, []float64{3000, 3600, 4600, 9200}, []float64{1, 2, 3, 4})
	trimmed := spectrum.Trim(raw, spectrum.DefaultWindow())

	res, err := Uniform(trimmed)
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}

	if res.Step != 1000 {
		t.Fatalf("step = %v, want 1000", res.Step)
	}
	testutil.RequireSliceNearlyEqual(t, res.Spectrum.Wave(), []float64{3600}, 0)
	testutil.RequireSliceNearlyEqual(t, res.Spectrum.Flux(), []float64{2}, 0)
}

func TestUniformGridProperties(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		wave := testutil.JitteredWavelengths(seed, 3512.3, 1.7, 3, 300)
		flux := testutil.EmissionLine(wave, 1e-16, 4e-16, 4861, 6)
		s := mustSpectrum(t, wave, flux)

		res, err := Uniform(s)
		if err != nil {
			t.Fatalf("seed %d: Uniform() error = %v", seed, err)
		}

		gw := res.Spectrum.Wave()
		testutil.RequireFinite(t, res.Spectrum.Flux())
		testutil.RequireStrictlyIncreasing(t, gw)
		testutil.RequireConstantStep(t, gw, 1.7, 1e-9)

		if math.Abs(res.Step-1.7) > 1e-9 {
			t.Fatalf("seed %d: step = %v, want 1.7", seed, res.Step)
		}
		if gw[0] != wave[0] {
			t.Fatalf("seed %d: grid starts at %v, want %v", seed, gw[0], wave[0])
		}
		if last := gw[len(gw)-1]; last >= wave[len(wave)-1] {
			t.Fatalf("seed %d: grid end %v not below %v", seed, last, wave[len(wave)-1])
		}
	}
}

func TestUniformExactAtOriginalSamples(t *testing.T) {
	// Samples at multiples of the minimum gap must reproduce their flux.
	wave := []float64{4000, 4000.5, 4001.5, 4002, 4004}
	flux := []float64{1, 7, -3, 2, 5}

	res, err := Uniform(mustSpectrum(t, wave, flux))
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}

	byWave := make(map[float64]float64)
	for i, w := range res.Spectrum.Wave() {
		byWave[w] = res.Spectrum.Flux()[i]
	}

	for i, w := range wave[:len(wave)-1] {
		got, ok := byWave[w]
		if !ok {
			t.Fatalf("grid misses original wavelength %v", w)
		}
		if got != flux[i] {
			t.Fatalf("flux at %v = %v, want %v", w, got, flux[i])
		}
	}

	// 4002.5 lies between 4002 (2) and 4004 (5).
	if got := byWave[4002.5]; got != 2.75 {
		t.Fatalf("flux at 4002.5 = %v, want 2.75", got)
	}
}

func TestUniformRoundTrip(t *testing.T) {
	wave := testutil.UniformWavelengths(5000, 0.25, 41)
	flux := testutil.EmissionLine(wave, 3, 1, 5005, 0.8)

	res, err := Uniform(mustSpectrum(t, wave, flux))
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}

	// The grid is half-open, so the final sample is not reproduced.
	testutil.RequireSliceNearlyEqual(t, res.Spectrum.Wave(), wave[:40], 0)
	testutil.RequireSliceNearlyEqual(t, res.Spectrum.Flux(), flux[:40], 0)
}

func TestUniformUnsortedInput(t *testing.T) {
	wave := testutil.UniformWavelengths(6000, 2, 20)
	flux := testutil.LinearFlux(wave, 0, 1)
	sw, sf := testutil.Shuffled(11, wave, flux)

	res, err := Uniform(mustSpectrum(t, sw, sf))
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, res.Spectrum.Wave(), wave[:19], 0)
	testutil.RequireSliceNearlyEqual(t, res.Spectrum.Flux(), flux[:19], 0)
}

func TestUniformErrors(t *testing.T) {
	tests := []struct {
		name string
		wave []float64
		flux []float64
		want error
	}{
		{name: "empty", wave: nil, flux: nil, want: ErrInsufficientData},
		{name: "single", wave: []float64{4000}, flux: []float64{1}, want: ErrInsufficientData},
		{name: "duplicate wavelength", wave: []float64{4000, 4001, 4001, 4003}, flux: []float64{1, 2, 3, 4}, want: ErrDegenerateGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Uniform(mustSpectrum(t, tt.wave, tt.flux))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Uniform() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUniformMaxPoints(t *testing.T) {
	s := mustSpectrum(t, []float64{4000, 4000.001, 8000}, []float64{1, 1, 1})

	if _, err := Uniform(s, WithMaxPoints(1000)); !errors.Is(err, ErrGridTooLarge) {
		t.Fatalf("Uniform() error = %v, want ErrGridTooLarge", err)
	}
}

func TestWithMaxPointsIgnoresNonPositive(t *testing.T) {
	cfg := defaultConfig()
	WithMaxPoints(0)(&cfg)
	WithMaxPoints(-5)(&cfg)
	if cfg.maxPoints != DefaultMaxPoints {
		t.Fatalf("maxPoints = %d, want %d", cfg.maxPoints, DefaultMaxPoints)
	}
}
