// Package logging initializes structured logging via zerolog.
//
// Thin wrapper: parse the configured level, pick json or console output,
// install the result as the process-wide default logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Unknown levels fall back to
// info; format "console" enables human-readable output on stderr.
func Setup(level, format string) {
	zerolog.TimeFieldFormat = time.RFC3339

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stderr
	if format == "console" {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	log.Logger = zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}
