package infra

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs the service logger: JSON in production, a console
// writer with debug level in development. The "cli" environment writes
// warnings and above to stderr so command output on stdout stays clean.
// LOG_LEVEL overrides the level in every environment.
func NewLogger(appEnv string) zerolog.Logger {
	out := io.Writer(os.Stdout)
	if appEnv == "cli" {
		out = os.Stderr
	}
	return newLogger(appEnv, os.Getenv("LOG_LEVEL"), out)
}

func newLogger(appEnv, levelName string, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch appEnv {
	case "development":
		level = zerolog.DebugLevel
	case "cli":
		level = zerolog.WarnLevel
	}
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelName))); err == nil && levelName != "" {
		level = parsed
	}

	if appEnv == "development" || appEnv == "cli" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: appEnv == "cli"}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "ledger").
		Logger()
}

// Logger aliases the zerolog.Logger so callers outside the infra package can
// depend on the logging contract without importing the third-party module.
type Logger = zerolog.Logger
