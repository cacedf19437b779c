package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireStrictlyIncreasing fails t unless data[i] < data[i+1] for all i.
func RequireStrictlyIncreasing(t testing.TB, data []float64) {
	t.Helper()
	for i := 1; i < len(data); i++ {
		if !(data[i-1] < data[i]) {
			t.Fatalf("index %d: %v does not increase past %v", i, data[i], data[i-1])
		}
	}
}

// RequireConstantStep fails t unless consecutive elements differ by step
// within eps.
func RequireConstantStep(t testing.TB, data []float64, step, eps float64) {
	t.Helper()
	for i := 1; i < len(data); i++ {
		if diff := data[i] - data[i-1]; math.Abs(diff-step) > eps {
			t.Fatalf("index %d: step %v, want %v (eps %v)", i, diff, step, eps)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
