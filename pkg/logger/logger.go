package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide structured logger. Quiet mode keeps errors only
// so command output stays readable.
func New(quiet bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return cfg.Build()
}
