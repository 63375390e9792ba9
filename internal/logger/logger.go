// Package logger provides leveled logging for the studydeck CLI.
// Messages go to stderr through a zerolog console writer. The level comes
// from settings; the --verbose flag forces debug output so users can follow
// the parsing pipeline page by page.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	verbose bool
	level   = zerolog.WarnLevel
	output  io.Writer = os.Stderr
	log     = build()
)

func build() zerolog.Logger {
	effective := level
	if verbose {
		effective = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:        output,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(cw).Level(effective).With().Timestamp().Logger()
}

// SetVerbose enables or disables debug logging regardless of the level.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetLevel sets the minimum level by name: debug, info, warn or error.
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return fmt.Errorf("unknown log level %q", name)
	}
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	log = build()
	return nil
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build()
}

// Logger returns the current logger for structured events.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	Logger().Debug().Msgf(format, args...)
}

// Info logs a formatted informational message.
func Info(format string, args ...any) {
	Logger().Info().Msgf(format, args...)
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	Logger().Warn().Msgf(format, args...)
}

// Error logs a formatted error.
func Error(format string, args ...any) {
	Logger().Error().Msgf(format, args...)
}

// Section prints a section header at debug level.
func Section(name string) {
	Logger().Debug().Msgf("=== %s ===", name)
}
