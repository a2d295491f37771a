package internal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	origLogger := log.Logger
	origLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})
}

func TestInitLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		cfg  LogConfig
		want zerolog.Level
	}{
		{name: "default", cfg: LogConfig{}, want: zerolog.InfoLevel},
		{name: "warn", cfg: LogConfig{Level: "warn"}, want: zerolog.WarnLevel},
		{name: "verbose wins", cfg: LogConfig{Level: "error", Verbose: true}, want: zerolog.DebugLevel},
		{name: "verbose keeps trace", cfg: LogConfig{Level: "trace", Verbose: true}, want: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLogger(t)
			var buf bytes.Buffer
			if err := initLogger(tt.cfg, &buf); err != nil {
				t.Fatalf("initLogger() error = %v", err)
			}
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("GlobalLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer
	if err := initLogger(LogConfig{Level: "loud"}, &buf); err == nil {
		t.Error("initLogger() should reject unknown levels")
	}
}

func TestInitLogger_JSONOutput(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer
	if err := initLogger(LogConfig{Level: "info", Format: "json"}, &buf); err != nil {
		t.Fatalf("initLogger() error = %v", err)
	}
	log.Info().Str("demo", "restaurant").Msg("conversation started")

	out := buf.String()
	if !strings.Contains(out, `"demo":"restaurant"`) || !strings.Contains(out, `"message":"conversation started"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}
