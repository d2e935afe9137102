// Package logger holds the process-wide structured logger. It replaces
// the ad-hoc console printing of earlier iterations with leveled, scoped
// logging.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger. It is a no-op until Initialize is called, so
// packages may log during early setup without nil checks.
var Log *zap.SugaredLogger

func init() {
	Log = zap.NewNop().Sugar()
}

// Initialize configures the global logger. format is "console" or
// "json"; debug lowers the level to include per-compilation detail.
func Initialize(format string, debug bool) error {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l.Sugar()
	return nil
}

// Cleanup flushes buffered entries at process exit.
func Cleanup() {
	if Log != nil {
		_ = Log.Sync()
	}
}
