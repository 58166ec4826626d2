package infra

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  zerolog.Level
	}{
		{"production", "", zerolog.InfoLevel},
		{"development", "", zerolog.DebugLevel},
		{"cli", "", zerolog.WarnLevel},
		{"production", "DEBUG", zerolog.DebugLevel},
		{"cli", "error", zerolog.ErrorLevel},
		{"production", "loud", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		l := newLogger(tc.env, tc.level, &bytes.Buffer{})
		if got := l.GetLevel(); got != tc.want {
			t.Fatalf("newLogger(%q, %q) level = %v, want %v", tc.env, tc.level, got, tc.want)
		}
	}
}

func TestNewLoggerProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("production", "", &buf)
	l.Info().Str("donation_id", "d1").Msg("created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["service"] != "ledger" || entry["donation_id"] != "d1" || entry["message"] != "created" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewLoggerCLIIsPlainText(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("cli", "", &buf)
	l.Warn().Msg("slow query")
	if !strings.Contains(buf.String(), "slow query") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("unexpected cli output %q", buf.String())
	}
}
