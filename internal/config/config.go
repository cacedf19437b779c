package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-rescale/dsp/resample"
	"github.com/cwbudde/algo-rescale/dsp/spectrum"
)

// EnvPrefix prefixes every environment override, e.g. RESCALE_WINDOW_MIN.
const EnvPrefix = "RESCALE"

// NoColumn marks an absent optional column.
const NoColumn = -1

// ErrInvalid indicates a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete rescaler configuration.
type Config struct {
	Window WindowConfig `toml:"window" envconfig:"WINDOW"`
	Input  InputConfig  `toml:"input" envconfig:"INPUT"`
	Output OutputConfig `toml:"output" envconfig:"OUTPUT"`
	Run    RunConfig    `toml:"run" envconfig:"RUN"`
	Log    LogConfig    `toml:"log" envconfig:"LOG"`
}

// WindowConfig is the trim window in wavelength units.
type WindowConfig struct {
	Min float64 `toml:"min" envconfig:"MIN" validate:"gte=0"`
	Max float64 `toml:"max" envconfig:"MAX" validate:"gtfield=Min"`
}

// InputConfig describes the tabular input.
type InputConfig struct {
	WaveCol     int    `toml:"wave_col" envconfig:"WAVE_COL" validate:"gte=0"`
	FluxCol     int    `toml:"flux_col" envconfig:"FLUX_COL" validate:"gte=0,nefield=WaveCol"`
	TimeCol     int    `toml:"time_col" envconfig:"TIME_COL" validate:"gte=-1"`
	Delimiter   string `toml:"delimiter" envconfig:"DELIMITER" validate:"required"`
	HeaderLines int    `toml:"header_lines" envconfig:"HEADER_LINES" validate:"gte=0"`
	Sheet       string `toml:"sheet" envconfig:"SHEET"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir    string `toml:"dir" envconfig:"DIR"`
	Suffix string `toml:"suffix" envconfig:"SUFFIX" validate:"required,excludesall=/\\"`
}

// RunConfig holds execution policy.
type RunConfig struct {
	Workers          int  `toml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=256"`
	SkipInsufficient bool `toml:"skip_insufficient" envconfig:"SKIP_INSUFFICIENT"`
	MaxPoints        int  `toml:"max_points" envconfig:"MAX_POINTS" validate:"gte=2"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level" envconfig:"LEVEL" validate:"oneof=trace debug info warn warning error off disabled"`
	Format string `toml:"format" envconfig:"FORMAT" validate:"oneof=console json"`
}

// Default returns the built-in configuration.
func Default() Config {
	w := spectrum.DefaultWindow()
	return Config{
		Window: WindowConfig{Min: w.Min, Max: w.Max},
		Input: InputConfig{
			WaveCol:   0,
			FluxCol:   1,
			TimeCol:   NoColumn,
			Delimiter: "tab",
		},
		Output: OutputConfig{Suffix: "rescaled"},
		Run: RunConfig{
			Workers:   1,
			MaxPoints: resample.DefaultMaxPoints,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load layers an optional TOML file and the environment over Default.
// An empty path skips the file layer. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config: %s: %s", path, strings.TrimSpace(strict.String()))
		}
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := c.TrimWindow().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if tc := c.Input.TimeCol; c.HasTimeColumn() && (tc == c.Input.WaveCol || tc == c.Input.FluxCol) {
		return fmt.Errorf("%w: time column %d overlaps wavelength/flux column", ErrInvalid, tc)
	}

	return nil
}

// TrimWindow returns the configured window.
func (c Config) TrimWindow() spectrum.Window {
	return spectrum.Window{Min: c.Window.Min, Max: c.Window.Max}
}

// HasTimeColumn reports whether multi-epoch mode is configured.
func (c Config) HasTimeColumn() bool {
	return c.Input.TimeCol != NoColumn
}
