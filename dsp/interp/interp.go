package interp

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-rescale/dsp/core"
)

var (
	// ErrTooFewPoints indicates a table with fewer than two samples.
	ErrTooFewPoints = errors.New("interp: need at least two samples")
	// ErrLengthMismatch indicates x and y tables of different lengths.
	ErrLengthMismatch = errors.New("interp: x and y lengths differ")
	// ErrNotIncreasing indicates abscissae that are not strictly increasing.
	ErrNotIncreasing = errors.New("interp: abscissae not strictly increasing")
	// ErrOutOfRange indicates a query outside the tabulated range.
	ErrOutOfRange = errors.New("interp: query outside tabulated range")
)

// Lerp evaluates the line through (x0, y0) and (x1, y1) at x.
func Lerp(x0, y0, x1, y1, x float64) float64 {
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// Linear is a piecewise-linear interpolator over a fixed table.
// It is safe for concurrent use.
type Linear struct {
	x []float64
	y []float64
}

// NewLinear creates an interpolator over x and y. The tables are
// referenced, not copied, and must not be modified afterwards.
func NewLinear(x, y []float64) (*Linear, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}

	if len(x) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(x))
	}

	if !core.IsStrictlyIncreasing(x) {
		return nil, fmt.Errorf("%w: %d abscissae from %v to %v", ErrNotIncreasing, len(x), x[0], x[len(x)-1])
	}

	return &Linear{x: x, y: y}, nil
}

// Domain returns the tabulated abscissa range.
func (l *Linear) Domain() (lo, hi float64) {
	return l.x[0], l.x[len(l.x)-1]
}

// Eval interpolates at x.
func (l *Linear) Eval(x float64) (float64, error) {
	if err := l.check(x); err != nil {
		return 0, err
	}

	i := sort.SearchFloat64s(l.x, x)
	return l.segment(i, x), nil
}

// EvalAll interpolates every query in xs. When out has sufficient capacity
// it is reused for the result.
//
// Ascending queries are resolved with a forward scan, so evaluating a whole
// grid costs O(len(xs) + len(table)).
func (l *Linear) EvalAll(xs []float64, out []float64) ([]float64, error) {
	if cap(out) >= len(xs) {
		out = out[:len(xs)]
	} else {
		out = make([]float64, len(xs))
	}

	j := 0
	for k, x := range xs {
		if err := l.check(x); err != nil {
			return nil, fmt.Errorf("query %d: %w", k, err)
		}

		if j > 0 && x <= l.x[j-1] {
			j = sort.SearchFloat64s(l.x, x)
		}
		for j < len(l.x) && l.x[j] < x {
			j++
		}

		out[k] = l.segment(j, x)
	}

	return out, nil
}

func (l *Linear) check(x float64) error {
	lo, hi := l.Domain()
	if !(x >= lo && x <= hi) {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, x, lo, hi)
	}
	return nil
}

// segment evaluates x given i, the index of the first abscissa >= x.
func (l *Linear) segment(i int, x float64) float64 {
	if l.x[i] == x {
		return l.y[i]
	}
	return Lerp(l.x[i-1], l.y[i-1], l.x[i], l.y[i], x)
}
