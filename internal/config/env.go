package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds settings read from the process environment. Command-line
// flags take precedence over these.
type Env struct {
	DataDir  string `env:"THERMOKIT_DATA_DIR" envDefault:".thermokit"`
	LogLevel string `env:"THERMOKIT_LOG_LEVEL" envDefault:"warn"`
	Workers  int    `env:"THERMOKIT_WORKERS" envDefault:"1"`
	Path     string `env:"THERMOKIT_PATH" envDefault:"."`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Level maps a level name to a slog level.
func Level(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// VerbosityLevel maps a repeated -v count onto warn, info and debug.
// The more verbose of that and base wins.
func VerbosityLevel(base slog.Level, count int) slog.Level {
	switch {
	case count >= 3:
		return slog.LevelDebug
	case count == 2:
		return min(base, slog.LevelInfo)
	case count == 1:
		return min(base, slog.LevelWarn)
	}
	return base
}
