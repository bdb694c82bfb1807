// Package logging builds the application's zap logger.
package logging

import (
	"go.uber.org/zap"
)

// Config holds logging configuration.
type Config struct {
	Level       string
	Format      string // "json" or "console"
	Development bool
	Service     string
}

// New creates a structured logger. An unparsable level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	if cfg.Service != "" {
		logger = logger.With(zap.String("service", cfg.Service))
	}
	return logger, nil
}

// Must is New with a production-logger fallback for startup code that has
// nowhere to report a logger error.
func Must(cfg Config) *zap.Logger {
	logger, err := New(cfg)
	if err == nil {
		return logger
	}
	fallback, ferr := zap.NewProduction()
	if ferr != nil {
		return zap.NewNop()
	}
	fallback.Warn("falling back to default logger", zap.Error(err))
	return fallback
}
