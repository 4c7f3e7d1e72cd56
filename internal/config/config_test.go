package config

import (
	"runtime"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Debug {
		t.Errorf("Default debug = %v, want false", cfg.Debug)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Default workers = %v, want %v", cfg.Workers, runtime.NumCPU())
	}
	if cfg.BatchSize != 2048 {
		t.Errorf("Default batch_size = %v, want %v", cfg.BatchSize, 2048)
	}
	if cfg.SlowItemThreshold != 100*time.Millisecond {
		t.Errorf("Default slow_item_threshold = %v, want %v", cfg.SlowItemThreshold, 100*time.Millisecond)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("FILETOOLS_DEBUG", "")
	t.Setenv("DUCKDB_FILE_TOOLS_DEBUG", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Debug {
		t.Errorf("Default debug = %v, want false", cfg.Debug)
	}
	if cfg.OutputFormat != "text" {
		t.Errorf("Default output_format = %v, want %v", cfg.OutputFormat, "text")
	}
	if !cfg.Metrics {
		t.Errorf("Default metrics = %v, want true", cfg.Metrics)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantDebug bool
		workers   int
	}{
		{"Prefixed debug", map[string]string{"FILETOOLS_DEBUG": "1"}, true, runtime.NumCPU()},
		{"Legacy debug", map[string]string{"DUCKDB_FILE_TOOLS_DEBUG": "1"}, true, runtime.NumCPU()},
		{"Debug off", map[string]string{"FILETOOLS_DEBUG": "0"}, false, runtime.NumCPU()},
		{"Workers", map[string]string{"FILETOOLS_WORKERS": "3"}, false, 3},
		{"Invalid workers", map[string]string{"FILETOOLS_WORKERS": "-1"}, false, runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FILETOOLS_DEBUG", "")
			t.Setenv("DUCKDB_FILE_TOOLS_DEBUG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.Debug != tt.wantDebug {
				t.Errorf("Debug = %v, want %v", cfg.Debug, tt.wantDebug)
			}
			if cfg.Workers != tt.workers {
				t.Errorf("Workers = %v, want %v", cfg.Workers, tt.workers)
			}
		})
	}
}
