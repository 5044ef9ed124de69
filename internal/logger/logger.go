package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// L returns the shared pipeline logger.
func L() *zerolog.Logger {
	return &log
}

// Request logs an API request being made.
func Request(source, method, url string, params map[string]interface{}) {
	ev := log.Info().Str("source", source).Str("method", method).Str("url", url)
	for k, v := range params {
		ev = ev.Interface(k, v)
	}
	ev.Msg("request")
}

// Response logs an API response received.
func Response(source string, statusCode int, duration time.Duration, resultCount int) {
	log.Info().
		Str("source", source).
		Int("status", statusCode).
		Dur("duration", duration).
		Int("results", resultCount).
		Msg("response")
}

// Error logs an error from a named operation.
func Error(source, operation string, err error) {
	log.Error().Str("source", source).Str("op", operation).Err(err).Msg("operation failed")
}
