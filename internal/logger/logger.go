// Package logger provides the zap-based structured logger used across the
// client and the stub server.
package logger

import (
	"go.uber.org/zap"
)

// Logger wraps a zap.Logger so callers hold a stable handle that Init can
// swap from the no-op default to a configured logger.
type Logger struct {
	// Log is the active zap logger. It is a no-op logger until Init succeeds.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap logger installed.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("debug", "info",
// "warn", "error") and installs it on the handle.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = zl
	return nil
}
