package core

import "math"

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every element of x is finite.
// It returns the index of the first offending element, or -1.
func AllFinite(x []float64) (bool, int) {
	for i, v := range x {
		if !IsFinite(v) {
			return false, i
		}
	}
	return true, -1
}

// IsStrictlyIncreasing reports whether x[i] < x[i+1] for all i.
func IsStrictlyIncreasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i-1] < x[i]) {
			return false
		}
	}
	return true
}
