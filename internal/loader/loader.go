package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/cwbudde/algo-rescale/dsp/spectrum"
)

// NoColumn marks the epoch column as absent.
const NoColumn = -1

// Options selects columns and framing of the input table.
type Options struct {
	WaveCol     int
	FluxCol     int
	TimeCol     int // NoColumn for single-epoch input
	Delimiter   string
	HeaderLines int
	Sheet       string // spreadsheet input only; empty means the first sheet
}

// DefaultOptions returns tab-separated wavelength/flux in columns 0 and 1.
func DefaultOptions() Options {
	return Options{WaveCol: 0, FluxCol: 1, TimeCol: NoColumn, Delimiter: "tab"}
}

// HasTimeColumn reports whether rows carry an epoch column.
func (o Options) HasTimeColumn() bool { return o.TimeCol != NoColumn }

// ParseDelimiter maps a delimiter name or literal to its rune. Whitespace
// mode, where any run of blanks separates fields, is reported as 0.
func ParseDelimiter(name string) (rune, error) {
	switch strings.ToLower(name) {
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	case "pipe", "|":
		return '|', nil
	case "space", "whitespace", " ":
		return 0, nil
	}

	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || size != len(name) || r == utf8.RuneError || r == '"' || r == '#' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%w %q", ErrDelimiter, name)
	}
	return r, nil
}

// Load reads path into a multi-epoch table. Files with an .xlsx extension
// are read as spreadsheets, anything else as delimited text.
func Load(path string, opt Options) (spectrum.MultiEpoch, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path, opt)
	}

	f, err := os.Open(path)
	if err != nil {
		return spectrum.MultiEpoch{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return Read(f, path, opt)
}

// Read parses delimited text from r. name is used in error messages.
func Read(r io.Reader, name string, opt Options) (spectrum.MultiEpoch, error) {
	delim, err := ParseDelimiter(opt.Delimiter)
	if err != nil {
		return spectrum.MultiEpoch{}, &LoadError{Path: name, Err: err}
	}

	br := bufio.NewReader(r)
	for i := 0; i < opt.HeaderLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return spectrum.MultiEpoch{}, &LoadError{Path: name, Line: i + 1, Err: err}
		}
	}

	t := newTable(name, opt)
	if delim == 0 {
		err = t.readFields(br)
	} else {
		err = t.readCSV(br, delim)
	}
	if err != nil {
		return spectrum.MultiEpoch{}, err
	}

	return t.build()
}

func loadXLSX(path string, opt Options) (spectrum.MultiEpoch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return spectrum.MultiEpoch{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return spectrum.MultiEpoch{}, &LoadError{Path: path, Err: fmt.Errorf("%w: %q", ErrSheet, sheet)}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return spectrum.MultiEpoch{}, &LoadError{Path: path, Err: err}
	}

	// GetRows drops trailing empty cells; pad rows to the sheet width so
	// an empty cell stays distinguishable from a column beyond the sheet.
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	t := newTable(path, opt)
	for i, row := range rows {
		line := i + 1
		if line <= opt.HeaderLines || blank(row) {
			continue
		}
		for len(row) < width {
			row = append(row, "")
		}
		if err := t.add(row, line); err != nil {
			return spectrum.MultiEpoch{}, err
		}
	}

	return t.build()
}

type table struct {
	name string
	opt  Options
	wave []float64
	flux []float64
	time []float64
}

func newTable(name string, opt Options) *table {
	t := &table{name: name, opt: opt}
	if opt.HasTimeColumn() {
		t.time = []float64{}
	}
	return t
}

func (t *table) readCSV(r io.Reader, delim rune) error {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = delim != '\t'
	cr.ReuseRecord = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine + t.opt.HeaderLines
			}
			return &LoadError{Path: t.name, Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		line += t.opt.HeaderLines
		if blank(rec) {
			continue
		}
		if err := t.add(rec, line); err != nil {
			return err
		}
	}
}

func (t *table) readFields(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := t.opt.HeaderLines
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := t.add(strings.Fields(text), line); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return &LoadError{Path: t.name, Line: line + 1, Err: err}
	}
	return nil
}

func (t *table) add(fields []string, line int) error {
	w, err := t.cell(fields, t.opt.WaveCol, line, false)
	if err != nil {
		return err
	}
	f, err := t.cell(fields, t.opt.FluxCol, line, false)
	if err != nil {
		return err
	}

	if t.time != nil {
		e, err := t.cell(fields, t.opt.TimeCol, line, true)
		if err != nil {
			return err
		}
		t.time = append(t.time, e)
	}

	t.wave = append(t.wave, w)
	t.flux = append(t.flux, f)
	return nil
}

// cell parses fields[col]. Empty optional cells parse as NaN, which the
// epoch splitter drops; a missing column is an error either way.
func (t *table) cell(fields []string, col, line int, optional bool) (float64, error) {
	if col < 0 || col >= len(fields) {
		return 0, &LoadError{Path: t.name, Line: line,
			Err: fmt.Errorf("%w: column %d, row has %d fields", ErrColumnRange, col, len(fields))}
	}

	s := strings.TrimSpace(fields[col])
	if s == "" && optional {
		return math.NaN(), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &LoadError{Path: t.name, Line: line,
			Err: fmt.Errorf("%w %q in column %d", ErrParse, s, col)}
	}
	return v, nil
}

func (t *table) build() (spectrum.MultiEpoch, error) {
	if len(t.wave) == 0 {
		return spectrum.MultiEpoch{}, &LoadError{Path: t.name, Err: ErrEmpty}
	}

	m, err := spectrum.NewMultiEpoch(t.wave, t.flux, t.time)
	if err != nil {
		return spectrum.MultiEpoch{}, &LoadError{Path: t.name, Err: err}
	}
	return m, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
