package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the logging backend and verbosity.
//
// Format is one of "text" (default), "json" (both log/slog) or "console" /
// "zerolog" (zerolog; "console" is the human-friendly colored writer).
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a Logger from opts.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		return newSlog(out, true, opts.Level)
	case "zerolog":
		return newZerolog(out, opts.Level)
	case "console":
		return newZerolog(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}, opts.Level)
	default:
		return newSlog(out, false, opts.Level)
	}
}
