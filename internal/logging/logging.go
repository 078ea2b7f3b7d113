package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the logger used by the CLI and adapters. The core compiler
// stays pure and never logs; callers attach context with With.
func New(service string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar().With("service", service), nil
}

// NewNop returns a logger that discards everything, for tests and for
// commands that must keep stdout machine-readable.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
