// Package logging constructs the zerolog logger used by the aict commands.
// The logger is built once per invocation and handed down the call chain
// explicitly; nothing in this repository mutates process-global state.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. With verbose set, debug
// events are emitted as well.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		Logger()
}
