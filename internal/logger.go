package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls the global logger
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "json" or "text"
	File       string `mapstructure:"file"`
	WithCaller bool   `mapstructure:"with_caller"`
	Verbose    bool   `mapstructure:"-"`
}

// InitLogger configures zerolog's global logger. Logs go to stderr so the
// console conversation on stdout stays clean.
func InitLogger(cfg LogConfig) error {
	return initLogger(cfg, os.Stderr)
}

func initLogger(cfg LogConfig, out io.Writer) error {
	var w io.Writer = out
	if cfg.Format == "text" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	if cfg.File != "" {
		w = io.MultiWriter(w, zerolog.ConsoleWriter{
			NoColor: true,
			Out: &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			},
		})
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	if cfg.Verbose && level != "trace" {
		level = "debug"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
