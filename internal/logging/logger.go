package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs the application logger from environment variables.
// LOG_LEVEL selects the minimum level (default info) and LOG_FORMAT
// may be set to "console" for human-readable output; the default is
// JSON to stdout.
func New(env string) zerolog.Logger {
	// ParseLevel maps the empty string to NoLevel without an error,
	// which would silence the logger entirely, so only a non-empty
	// value may override the default.
	level := zerolog.InfoLevel
	if raw := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	output := io.Writer(os.Stdout)
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", "parkslot").
		Str("env", env).
		Logger()
}
