// Package observability sets up process-level logging for the dashbus
// tools. On-bus diagnostics travel through canlog; this logger carries
// the local side: startup, config errors, and the canlog fallback sink.
package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the console logger for a tool. Output goes to
// stderr so frame dumps on stdout stay machine-readable.
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
