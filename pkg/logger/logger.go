// Package logger builds the process-wide zerolog logger.
//
// main calls Init once. Code without an injected logger falls back to Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New and Init.
type Options struct {
	// Level accepts zerolog level names plus "warning". Anything else means info.
	Level string
	// Pretty switches to coloured console output.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is stamped on every entry.
	Service string
}

var (
	mu     sync.RWMutex
	global *zerolog.Logger
)

// New returns a logger for opts without touching package state. An
// unrecognised level is reported once on the returned logger.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl, known := ParseLevel(opts.Level)
	fields := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	log := fields.Logger()

	if !known {
		log.Warn().Str("level", opts.Level).Msg("unknown log level, using info")
	}
	return log
}

// Init installs the global logger on first use and returns it. Later calls
// return the installed logger and ignore opts.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if global == nil {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log := New(opts)
		zerolog.SetGlobalLevel(log.GetLevel())
		global = &log
	}
	return *global
}

// Get returns the logger installed by Init and panics without one.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if global == nil {
		panic("logger: Get called before Init")
	}
	return *global
}

// Reset drops the global logger. Tests only.
func Reset() {
	mu.Lock()
	global = nil
	mu.Unlock()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// ParseLevel maps a level name to a zerolog level. The bool is false when the
// name was not recognised and info was substituted. An empty name is info.
func ParseLevel(s string) (zerolog.Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zerolog.InfoLevel, true
	case "warning":
		return zerolog.WarnLevel, true
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}
