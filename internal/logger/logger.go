// Package logger holds the process-wide zap logger
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the application logger, a no-op logger until Init is called
var Logger = zap.NewNop()

// Init builds a JSON production logger at the given level ("debug", "info", "warn", "error")
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Logger = built
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Logger.Sync()
}
