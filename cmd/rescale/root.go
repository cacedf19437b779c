package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-rescale/internal/config"
	"github.com/cwbudde/algo-rescale/internal/logger"
	"github.com/cwbudde/algo-rescale/internal/pipeline"
)

var errNoInput = errors.New("no input file: use --filename or pass files as arguments")

var rootCmd = &cobra.Command{
	Use:   "rescale [file ...]",
	Short: "Regrid spectra onto a uniform wavelength grid",
	Long: `Reads tabular spectra (wavelength, flux and an optional epoch column),
keeps the samples strictly inside the trim window, interpolates them onto an
evenly spaced grid whose step is the smallest input spacing and writes one
file per epoch.

Settings are layered: built-in defaults, then --config FILE (TOML), then
RESCALE_* environment variables, then flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRescale,
}

func init() {
	f := rootCmd.Flags()
	f.StringP("filename", "f", "", "input file (.txt, .csv, .xlsx, ...)")
	f.Int("wavecol", 0, "zero-based wavelength column")
	f.Int("fluxcol", 1, "zero-based flux column")
	f.Int("timecol", config.NoColumn, "zero-based epoch column, -1 for single-epoch input")
	f.String("delim", "tab", "delimiter: tab, comma, space, semicolon, pipe or a single character")
	f.Int("hdr", 0, "header lines to skip")
	f.String("sheet", "", "spreadsheet sheet name (default: first sheet)")
	f.Float64("min", 0, "lower bound of the trim window (exclusive)")
	f.Float64("max", 0, "upper bound of the trim window (exclusive)")
	f.String("outdir", "", "output directory (default: next to the input)")
	f.String("suffix", "", "output file name suffix")
	f.Int("workers", 1, "epochs processed in parallel")
	f.Bool("skip-insufficient", false, "skip epochs with fewer than two samples in the window")
	f.Int("max-points", 0, "upper limit on grid points per epoch")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "TOML configuration file")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error, off")
	pf.String("log-format", "", "log format: console or json")
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}

func runRescale(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	inputs := args
	if name, _ := cmd.Flags().GetString("filename"); name != "" {
		inputs = append([]string{name}, args...)
	}
	if len(inputs) == 0 {
		return errNoInput
	}

	logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})

	runner, err := pipeline.New(pipeline.OptionsFromConfig(cfg), logger.Named("pipeline"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, in := range inputs {
		rep, err := runner.Run(ctx, in)
		if err != nil {
			return err
		}
		for _, out := range rep.Written {
			cmd.Println(out.Path)
		}
	}

	return nil
}

// loadConfig layers flags the user set explicitly over file and
// environment settings, then validates the result.
func loadConfig(fs *pflag.FlagSet) (config.Config, error) {
	path, _ := fs.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	var ferr error
	setInt := func(name string, dst *int) {
		if fs.Changed(name) && ferr == nil {
			*dst, ferr = fs.GetInt(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if fs.Changed(name) && ferr == nil {
			*dst, ferr = fs.GetFloat64(name)
		}
	}
	setString := func(name string, dst *string) {
		if fs.Changed(name) && ferr == nil {
			*dst, ferr = fs.GetString(name)
		}
	}

	setInt("wavecol", &cfg.Input.WaveCol)
	setInt("fluxcol", &cfg.Input.FluxCol)
	setInt("timecol", &cfg.Input.TimeCol)
	setString("delim", &cfg.Input.Delimiter)
	setInt("hdr", &cfg.Input.HeaderLines)
	setString("sheet", &cfg.Input.Sheet)
	setFloat("min", &cfg.Window.Min)
	setFloat("max", &cfg.Window.Max)
	setString("outdir", &cfg.Output.Dir)
	setString("suffix", &cfg.Output.Suffix)
	setInt("workers", &cfg.Run.Workers)
	setInt("max-points", &cfg.Run.MaxPoints)
	setString("log-level", &cfg.Log.Level)
	setString("log-format", &cfg.Log.Format)
	if fs.Changed("skip-insufficient") && ferr == nil {
		cfg.Run.SkipInsufficient, ferr = fs.GetBool("skip-insufficient")
	}
	if ferr != nil {
		return config.Config{}, fmt.Errorf("flags: %w", ferr)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
