// Package telemetry configures the zerolog.Logger that synth
// (Config.Logger) and bench (Execution.Logger) accept as a field: a
// simple integer verbosity count (-v, -vv, ...) selects among a fixed
// ladder of levels, nothing more elaborate.
package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// levelLadder mirrors verbosity_to_log_level's log_levels list
// (NOTSET, CRITICAL, ERROR, WARNING, INFO, DEBUG) position for position:
// index 0 (no -v at all) disables logging, each further -v lowers the
// threshold one notch, index len-1 (-vvvvv) logs everything.
var levelLadder = []zerolog.Level{
	zerolog.Disabled,
	zerolog.PanicLevel,
	zerolog.ErrorLevel,
	zerolog.WarnLevel,
	zerolog.InfoLevel,
	zerolog.DebugLevel,
}

// LevelForVerbosity maps a -v count to a zerolog.Level using levelLadder.
// Matching verbosity_to_log_level exactly: verbosity outside [0,
// len(levelLadder)) does not clamp to the nearest boundary, it defaults
// to the ladder's last (most verbose) entry.
func LevelForVerbosity(verbosity int) zerolog.Level {
	if verbosity < 0 || verbosity >= len(levelLadder) {
		return levelLadder[len(levelLadder)-1]
	}
	return levelLadder[verbosity]
}

// New returns a Logger configured at the level LevelForVerbosity(verbosity)
// selects, writing to os.Stderr by default; WithWriter overrides the
// destination (tests use this to capture or silence output).
func New(verbosity int, opts ...Option) zerolog.Logger {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	return zerolog.New(cfg.writer).
		Level(LevelForVerbosity(verbosity)).
		With().Timestamp().Logger()
}

// Option customizes New's logger construction.
type Option func(*options)

type options struct {
	writer io.Writer
}

func defaultOptions() *options {
	return &options{writer: os.Stderr}
}

// WithWriter redirects the logger's output away from the default
// os.Stderr; tests use this to capture output or silence it entirely
// (e.g. io.Discard).
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}
