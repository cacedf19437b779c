// Package writer serializes rescaled spectra and writes them atomically.
package writer

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-rescale/dsp/spectrum"
)

// DefaultSuffix marks output files as rescaled.
const DefaultSuffix = "rescaled"

// NameOptions controls output file naming.
type NameOptions struct {
	Dir    string // empty means next to the input file
	Suffix string
}

// FileName derives the output path for epoch e of input.
//
//	<dir>/<stem>_<suffix>.txt               untagged
//	<dir>/<stem>_<epoch>days_<suffix>.txt   tagged
func FileName(input string, e spectrum.Epoch, opt NameOptions) string {
	dir := opt.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	suffix := opt.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}

	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	b.WriteString(stem)
	b.WriteByte('_')
	if e.Tagged {
		b.WriteString(EpochLabel(e.ID))
		b.WriteString("days_")
	}
	b.WriteString(suffix)
	b.WriteString(".txt")

	return filepath.Join(dir, b.String())
}

// EpochLabel renders an epoch value with the fewest digits that round-trip.
func EpochLabel(id float64) string {
	return strconv.FormatFloat(id, 'f', -1, 64)
}

// Format renders s as one "wavelength<delim>flux" row per sample, with the
// wavelength rounded to two decimals and the flux in scientific notation
// with seven fractional digits. Undefined fluxes are written as nan, inf
// or -inf.
func Format(s spectrum.Spectrum, delim string) []byte {
	wave, flux := s.Wave(), s.Flux()

	buf := bytes.NewBuffer(make([]byte, 0, len(wave)*(24+len(delim))))
	row := make([]byte, 0, 48)
	for i := range wave {
		row = strconv.AppendFloat(row[:0], wave[i], 'f', 2, 64)
		row = append(row, delim...)
		row = appendFlux(row, flux[i])
		row = append(row, '\n')
		buf.Write(row)
	}

	return buf.Bytes()
}

func appendFlux(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}
	return strconv.AppendFloat(dst, v, 'e', 7, 64)
}

// Batch publishes a set of files together. Each file is first written to
// a temporary sibling; Commit renames them all into place and, if any
// rename fails, removes the files it already published. Files the batch
// replaced are not restored.
type Batch struct {
	perm   os.FileMode
	staged []staged
}

type staged struct {
	tmp  string
	path string
}

// NewBatch returns an empty batch whose files get permission perm.
func NewBatch(perm os.FileMode) *Batch {
	return &Batch{perm: perm}
}

// Len returns the number of staged files.
func (b *Batch) Len() int { return len(b.staged) }

// Add writes data to a temporary file in the directory of path.
func (b *Batch) Add(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writer: write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writer: sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writer: close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), b.perm); err != nil {
		return fmt.Errorf("writer: chmod %s: %w", path, err)
	}

	b.staged = append(b.staged, staged{tmp: tmp.Name(), path: path})
	return nil
}

// Commit renames every staged file to its final path. On failure no
// staged or published file of the batch remains.
func (b *Batch) Commit() error {
	for i, st := range b.staged {
		if err := os.Rename(st.tmp, st.path); err != nil {
			for _, done := range b.staged[:i] {
				_ = os.Remove(done.path)
			}
			for _, rest := range b.staged[i:] {
				_ = os.Remove(rest.tmp)
			}
			b.staged = nil
			return fmt.Errorf("writer: rename %s: %w", st.path, err)
		}
	}

	b.staged = nil
	return nil
}

// Discard removes every staged temporary file.
func (b *Batch) Discard() {
	for _, st := range b.staged {
		_ = os.Remove(st.tmp)
	}
	b.staged = nil
}
