// Package logger provides the process-wide zerolog logger and helpers that
// keep personal data out of log lines.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance. It writes human-readable console
// output until SetJSON or SetOutput is called.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
	With().
	Timestamp().
	Caller().
	Logger()

func init() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// SetLevel sets the global log level. Unknown or empty names select info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// SetJSON switches to JSON lines on stdout.
func SetJSON() {
	SetOutput(os.Stdout)
}

// SetOutput sends JSON log lines to w.
func SetOutput(w io.Writer) {
	Log = zerolog.New(w).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}
