package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"seedbench/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seeds.First != 1 || cfg.Seeds.Last != 100 {
		t.Errorf("seed range: got %d..%d, want 1..100", cfg.Seeds.First, cfg.Seeds.Last)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("timeout_seconds: got %d, want 5", cfg.TimeoutSeconds)
	}
	if cfg.Workers < 1 {
		t.Errorf("workers: got %d, want at least 1", cfg.Workers)
	}
	if want := filepath.Join("build", "judge"); cfg.Paths.Judge != want {
		t.Errorf("judge path: got %q, want %q", cfg.Paths.Judge, want)
	}
	if cfg.Sandbox.Image != "" {
		t.Errorf("sandbox image: got %q, want empty", cfg.Sandbox.Image)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seedbench.yaml")
	content := `
paths:
  bin_dir: bins
  input_dir: in
  output_dir: out
seeds:
  first: 10
  last: 12
timeout_seconds: 9
workers: 3
sandbox:
  image: alpine:latest
  cpu_limit: 1.5
  memory_limit_mb: 256
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.BinDir != "bins" {
		t.Errorf("bin_dir: got %q, want %q", cfg.Paths.BinDir, "bins")
	}
	if want := filepath.Join("bins", "generator"); cfg.Paths.Generator != want {
		t.Errorf("generator path: got %q, want %q", cfg.Paths.Generator, want)
	}
	if cfg.Timeout() != 9*time.Second {
		t.Errorf("Timeout: got %v, want 9s", cfg.Timeout())
	}
	if cfg.Sandbox.Image != "alpine:latest" || cfg.Sandbox.MemoryLimitMB != 256 {
		t.Errorf("sandbox: got %+v", cfg.Sandbox)
	}

	seeds := cfg.SeedList()
	if len(seeds) != 3 || seeds[0] != 10 || seeds[2] != 12 {
		t.Errorf("SeedList: got %v, want [10 11 12]", seeds)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"last before first", "seeds:\n  first: 10\n  last: 2\n"},
		{"zero first", "seeds:\n  first: -1\n  last: 5\n"},
		{"negative timeout", "timeout_seconds: -3\n"},
		{"negative workers", "workers: -1\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"negative memory", "sandbox:\n  memory_limit_mb: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "seedbench.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("writing config: %v", err)
			}
			if _, err := config.Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEEDBENCH_WORKERS", "3")
	t.Setenv("SEEDBENCH_TIMEOUT_SECONDS", "42")
	t.Setenv("SEEDBENCH_LOG_LEVEL", "debug")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers: got %d, want 3", cfg.Workers)
	}
	if cfg.TimeoutSeconds != 42 {
		t.Errorf("timeout_seconds: got %d, want 42", cfg.TimeoutSeconds)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level: got %q, want debug", cfg.Log.Level)
	}
}

func TestSolverPath(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.SolverPath("v17"), filepath.Join("build", "solver_v17"); got != want {
		t.Errorf("SolverPath: got %q, want %q", got, want)
	}
}
