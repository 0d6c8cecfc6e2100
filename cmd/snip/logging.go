package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"snip/internal/config"
)

const logLevelEnvKey = "SNIP_LOG_LEVEL"

// configureLoggerForCLI builds the logger commands hand to the store. An
// invalid flag level is an error; an invalid env or config level falls back
// to the default and yields a warning for stderr.
func configureLoggerForCLI(flagLevel, configLevel string) (*slog.Logger, string, error) {
	envLevel := os.Getenv(logLevelEnvKey)
	rawLevel, source := selectedLogLevel(flagLevel, envLevel, configLevel)
	level, err := parseLogLevel(rawLevel)
	if err == nil {
		return newLogger(level), "", nil
	}

	fallback := newLogger(defaultLogLevel())
	switch source {
	case "flag":
		return nil, "", fmt.Errorf("invalid --log-level %q", flagLevel)
	case "env":
		return fallback, fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, envLevel, config.DefaultLogLevel), nil
	case "config":
		return fallback, fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", configLevel, config.DefaultLogLevel), nil
	default:
		return fallback, "", nil
	}
}

func selectedLogLevel(flagLevel, envLevel, configLevel string) (string, string) {
	if strings.TrimSpace(flagLevel) != "" {
		return flagLevel, "flag"
	}
	if strings.TrimSpace(envLevel) != "" {
		return envLevel, "env"
	}
	if strings.TrimSpace(configLevel) != "" {
		return configLevel, "config"
	}
	return "", "default"
}

func defaultLogLevel() slog.Level {
	level, err := parseLogLevel(config.DefaultLogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// parseLogLevel accepts slog level names, "warning" and numeric levels.
// An empty value selects the configured default.
func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = config.DefaultLogLevel
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}

	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
