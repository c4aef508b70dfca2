package logger

import (
	"go.uber.org/zap"
)

var Log = zap.NewNop()

// Initialize replaces the global logger with a production logger at the
// given level.
func Initialize(level string) error {
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

	Log = zl
	return nil
}
