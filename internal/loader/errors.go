package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnRange indicates a configured column missing from a row.
	ErrColumnRange = errors.New("column index out of range")
	// ErrParse indicates a cell that is not a number.
	ErrParse = errors.New("invalid number")
	// ErrEmpty indicates a table without data rows.
	ErrEmpty = errors.New("no data rows")
	// ErrDelimiter indicates an unknown delimiter name.
	ErrDelimiter = errors.New("unsupported delimiter")
	// ErrSheet indicates a missing spreadsheet sheet.
	ErrSheet = errors.New("sheet not found")
)

// LoadError reports why a tabular source could not be loaded.
type LoadError struct {
	Path string
	Line int // 1-based; 0 when not tied to a line
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
