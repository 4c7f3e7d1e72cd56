package logging

import (
	"testing"

	"github.com/nicad/duckdb-file-tools/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"Debug enabled", true, true},
		{"Debug disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Debug = tt.debug

			logger, err := New(cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !logger.Core().Enabled(zapcore.ErrorLevel) {
				t.Error("error level should always be enabled")
			}
		})
	}
}
