// internal/logging/logging.go
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the configured level when set.
const EnvLogLevel = "MPURELAY_LOG_LEVEL"

// New builds the process logger: console output, RFC3339 timestamps, app field.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, ok := ParseLevel(os.Getenv(EnvLogLevel))
	if !ok {
		lvl, _ = ParseLevel(level)
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "mpurelay").
		Logger()
}

// ParseLevel maps a config/env level name to a zerolog level.
// The second result is false for empty or unknown names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
