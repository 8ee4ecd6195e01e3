// Package logger builds the zap loggers used by the server and CLI
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const environmentProduction = "production"

// New returns a JSON logger in production and a console logger otherwise.
// An empty level keeps the config default (info in production, debug otherwise).
func New(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == environmentProduction {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel parses debug, info, warn or error
func ParseLevel(level string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Must is New for program entry points, falling back to a no-op logger
func Must(environment, level string) *zap.Logger {
	l, err := New(environment, level)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
