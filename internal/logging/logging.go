package logging

import (
	"github.com/nicad/duckdb-file-tools/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger.
// Debug mode gets the development logger; otherwise only errors reach stderr.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg != nil && cfg.Debug {
		return zap.NewDevelopment()
	}

	// Silent logger - only errors
	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return zcfg.Build()
}
