// Package logger provides a zerolog wrapper with console/JSON output and a
// process-wide root logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger.
type Options struct {
	Level     string
	Format    string
	Component string
	Writer    io.Writer
}

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

var root atomic.Pointer[zerolog.Logger]

// New builds a logger from opt without touching the process-wide root.
func New(opt Options) Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}

	ctx := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	return ctx.Logger()
}

// Init builds the root logger from opt and installs it. A later call
// replaces the root; children already handed out keep their settings.
func Init(opt Options) {
	l := New(opt)
	root.Store(&l)
}

// Get returns the root logger, installing an info-level default if Init
// was never called.
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	l := New(Options{Level: "info"})
	root.CompareAndSwap(nil, &l)
	return root.Load()
}

// Named returns a child of the root logger with a component field.
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

// ParseLevel maps a level name to zerolog. Unknown names mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
