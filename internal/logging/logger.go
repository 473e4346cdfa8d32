package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets human-readable console
// output; every other environment gets JSON. Each run is tagged with a
// session_id so exported files can be matched to the run that wrote them.
func New(out io.Writer, appEnv, levelStr string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
		if appEnv == "development" {
			level = zerolog.DebugLevel
		}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("session_id", uuid.NewString()).
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}
