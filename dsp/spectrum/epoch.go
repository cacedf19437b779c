package spectrum

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-rescale/dsp/core"
)

// MultiEpoch is a table of wavelength/flux rows with an optional epoch tag
// per row. A nil epoch column means the table holds a single observation.
type MultiEpoch struct {
	wave   []float64
	flux   []float64
	epochs []float64
}

// NewMultiEpoch builds a table from parallel columns. epochs may be nil.
// The columns are not copied; callers hand over ownership.
func NewMultiEpoch(wave, flux, epochs []float64) (MultiEpoch, error) {
	if len(wave) != len(flux) {
		return MultiEpoch{}, fmt.Errorf("%w: %d wavelengths, %d fluxes", ErrLengthMismatch, len(wave), len(flux))
	}

	if epochs != nil && len(epochs) != len(wave) {
		return MultiEpoch{}, fmt.Errorf("%w: %d wavelengths, %d epochs", ErrLengthMismatch, len(wave), len(epochs))
	}

	return MultiEpoch{wave: wave, flux: flux, epochs: epochs}, nil
}

// Len returns the number of rows.
func (m MultiEpoch) Len() int { return len(m.wave) }

// Tagged reports whether rows carry epoch identifiers.
func (m MultiEpoch) Tagged() bool { return m.epochs != nil }

// Epoch is one observation extracted from a [MultiEpoch].
type Epoch struct {
	// ID is the epoch value, e.g. days since the reference event.
	// Meaningless when Tagged is false.
	ID       float64
	Tagged   bool
	Spectrum Spectrum
}

// String renders the epoch for log and error messages.
func (e Epoch) String() string {
	if !e.Tagged {
		return "untagged"
	}
	return fmt.Sprintf("%g", e.ID)
}

// Split partitions m into one [Epoch] per distinct finite epoch value,
// ordered by ascending epoch. Rows whose epoch is NaN or infinite are
// dropped and counted in dropped.
//
// An untagged table yields exactly one untagged Epoch covering every row.
func Split(m MultiEpoch) (epochs []Epoch, dropped int, err error) {
	if !m.Tagged() {
		s, err := New(m.wave, m.flux)
		if err != nil {
			return nil, 0, err
		}
		return []Epoch{{Spectrum: s}}, 0, nil
	}

	rows := make(map[float64][]int)
	for i, e := range m.epochs {
		if !core.IsFinite(e) {
			dropped++
			continue
		}
		rows[e] = append(rows[e], i)
	}

	ids := make([]float64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	epochs = make([]Epoch, 0, len(ids))
	for _, id := range ids {
		idx := rows[id]
		wave := make([]float64, len(idx))
		flux := make([]float64, len(idx))
		for k, i := range idx {
			wave[k] = m.wave[i]
			flux[k] = m.flux[i]
		}

		s, err := New(wave, flux)
		if err != nil {
			return nil, dropped, fmt.Errorf("epoch %g: %w", id, err)
		}
		epochs = append(epochs, Epoch{ID: id, Tagged: true, Spectrum: s})
	}

	return epochs, dropped, nil
}
