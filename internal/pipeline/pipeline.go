package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-rescale/dsp/resample"
	"github.com/cwbudde/algo-rescale/dsp/spectrum"
	"github.com/cwbudde/algo-rescale/internal/config"
	"github.com/cwbudde/algo-rescale/internal/loader"
	"github.com/cwbudde/algo-rescale/internal/logger"
	"github.com/cwbudde/algo-rescale/internal/writer"
)

// Options configures a Runner.
type Options struct {
	Window           spectrum.Window
	Load             loader.Options
	Names            writer.NameOptions
	Workers          int
	SkipInsufficient bool
	MaxPoints        int
}

// OptionsFromConfig maps a validated configuration onto runner options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Window: cfg.TrimWindow(),
		Load: loader.Options{
			WaveCol:     cfg.Input.WaveCol,
			FluxCol:     cfg.Input.FluxCol,
			TimeCol:     cfg.Input.TimeCol,
			Delimiter:   cfg.Input.Delimiter,
			HeaderLines: cfg.Input.HeaderLines,
			Sheet:       cfg.Input.Sheet,
		},
		Names:            writer.NameOptions{Dir: cfg.Output.Dir, Suffix: cfg.Output.Suffix},
		Workers:          cfg.Run.Workers,
		SkipInsufficient: cfg.Run.SkipInsufficient,
		MaxPoints:        cfg.Run.MaxPoints,
	}
}

// Output describes one written file.
type Output struct {
	Epoch  spectrum.Epoch
	Path   string
	Points int
	Step   float64
}

// Report summarizes a run.
type Report struct {
	Input       string
	DroppedRows int
	Written     []Output
	Skipped     []*EpochError
}

// Runner executes the rescaling pipeline.
type Runner struct {
	opt   Options
	delim string
	log   *logger.Logger
}

// New validates opt and returns a Runner. A nil log discards output.
func New(opt Options, log *logger.Logger) (*Runner, error) {
	if err := opt.Window.Validate(); err != nil {
		return nil, err
	}

	r, err := loader.ParseDelimiter(opt.Load.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	delim := " "
	if r != 0 {
		delim = string(r)
	}

	if opt.Workers < 1 {
		opt.Workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Runner{opt: opt, delim: delim, log: log}, nil
}

type result struct {
	epoch   spectrum.Epoch
	path    string
	data    []byte
	points  int
	step    float64
	skipped *EpochError
}

// Run rescales every epoch of input and writes one file per epoch.
// Either all files are written or, on error, none are.
func (r *Runner) Run(ctx context.Context, input string) (Report, error) {
	rep := Report{Input: input}
	log := r.log.With().Str("file", input).Logger()

	m, err := loader.Load(input, r.opt.Load)
	if err != nil {
		return rep, err
	}

	epochs, dropped, err := spectrum.Split(m)
	if err != nil {
		return rep, fmt.Errorf("rescale %s: %w", input, err)
	}
	rep.DroppedRows = dropped
	if dropped > 0 {
		log.Warn().Int("rows", dropped).Msg("dropped rows with undefined epoch")
	}
	if len(epochs) == 0 {
		return rep, fmt.Errorf("rescale %s: %w", input, ErrNoEpochs)
	}

	log.Info().Int("rows", m.Len()).Int("epochs", len(epochs)).Msg("loaded")

	results := make([]result, len(epochs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opt.Workers)

	for i, e := range epochs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.process(input, e)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rep, err
	}

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	if r.opt.Names.Dir != "" {
		if err := os.MkdirAll(r.opt.Names.Dir, 0o755); err != nil {
			return rep, fmt.Errorf("rescale %s: %w", input, err)
		}
	}

	batch := writer.NewBatch(0o644)
	var written []Output
	for _, res := range results {
		if res.skipped != nil {
			rep.Skipped = append(rep.Skipped, res.skipped)
			log.Warn().Stringer("epoch", res.epoch).Err(res.skipped.Err).Msg("skipped epoch")
			continue
		}

		if err := batch.Add(res.path, res.data); err != nil {
			batch.Discard()
			return rep, &EpochError{File: input, Epoch: res.epoch, Err: err}
		}
		written = append(written, Output{Epoch: res.epoch, Path: res.path, Points: res.points, Step: res.step})
	}

	if err := ctx.Err(); err != nil {
		batch.Discard()
		return rep, err
	}
	if err := batch.Commit(); err != nil {
		return rep, fmt.Errorf("rescale %s: %w", input, err)
	}

	rep.Written = written
	for _, out := range written {
		log.Info().Stringer("epoch", out.Epoch).Str("output", out.Path).Int("points", out.Points).Msg("wrote")
	}

	return rep, nil
}

func (r *Runner) process(input string, e spectrum.Epoch) (result, error) {
	trimmed := spectrum.Trim(e.Spectrum, r.opt.Window)

	var opts []resample.Option
	if r.opt.MaxPoints > 0 {
		opts = append(opts, resample.WithMaxPoints(r.opt.MaxPoints))
	}

	res, err := resample.Uniform(trimmed, opts...)
	if err != nil {
		ee := &EpochError{File: input, Epoch: e, Err: err}
		if r.opt.SkipInsufficient && errors.Is(err, resample.ErrInsufficientData) {
			return result{epoch: e, skipped: ee}, nil
		}
		return result{}, ee
	}

	lo, hi, _ := trimmed.Bounds()
	r.log.Debug().
		Str("file", input).
		Stringer("epoch", e).
		Int("points_in", e.Spectrum.Len()).
		Int("points_trimmed", trimmed.Len()).
		Float64("wave_min", lo).
		Float64("wave_max", hi).
		Int("points_out", res.Spectrum.Len()).
		Float64("start", res.Start).
		Float64("step", res.Step).
		Msg("rescaled")

	return result{
		epoch:  e,
		path:   writer.FileName(input, e, r.opt.Names),
		data:   writer.Format(res.Spectrum, r.delim),
		points: res.Spectrum.Len(),
		step:   res.Step,
	}, nil
}
