package pipeline

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-rescale/dsp/spectrum"
)

// ErrNoEpochs indicates an input whose every row had an undefined epoch.
var ErrNoEpochs = errors.New("pipeline: no epochs with a defined time")

// EpochError attributes a failure to one epoch of one input file.
type EpochError struct {
	File  string
	Epoch spectrum.Epoch
	Err   error
}

func (e *EpochError) Error() string {
	return fmt.Sprintf("rescale %s epoch %s: %v", e.File, e.Epoch, e.Err)
}

func (e *EpochError) Unwrap() error { return e.Err }
