package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths          Paths   `yaml:"paths"`
	Seeds          Seeds   `yaml:"seeds"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	Workers        int     `yaml:"workers"`
	Sandbox        Sandbox `yaml:"sandbox"`
	Log            Log     `yaml:"log"`
}

type Paths struct {
	BinDir           string `yaml:"bin_dir"`
	InputDir         string `yaml:"input_dir"`
	OutputDir        string `yaml:"output_dir"`
	OverviewTemplate string `yaml:"overview_template"`
	Overview         string `yaml:"overview"`
	Judge            string `yaml:"judge"`
	Generator        string `yaml:"generator"`
}

type Seeds struct {
	First int `yaml:"first"`
	Last  int `yaml:"last"`
}

// Sandbox configures optional container isolation for judge runs.
// An empty image means the judge runs directly on the host.
type Sandbox struct {
	Image         string  `yaml:"image"`
	CPULimit      float64 `yaml:"cpu_limit"`
	MemoryLimitMB int64   `yaml:"memory_limit_mb"`
}

type Log struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Load reads the yaml config at path. A missing file is not an error: the
// harness runs on defaults alone, matching its zero-config origins. A .env
// file and SEEDBENCH_* environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	loadEnv(cfg)
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func loadEnv(cfg *Config) {
	if _, err := os.Stat(".env"); err == nil {
		godotenv.Load(".env")
	}
	if v := os.Getenv("SEEDBENCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("SEEDBENCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("SEEDBENCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Paths.BinDir == "" {
		cfg.Paths.BinDir = "build"
	}
	if cfg.Paths.InputDir == "" {
		cfg.Paths.InputDir = "input"
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = "output"
	}
	if cfg.Paths.OverviewTemplate == "" {
		cfg.Paths.OverviewTemplate = "overview.tmpl.html"
	}
	if cfg.Paths.Overview == "" {
		cfg.Paths.Overview = "overview.html"
	}
	if cfg.Paths.Judge == "" {
		cfg.Paths.Judge = filepath.Join(cfg.Paths.BinDir, "judge")
	}
	if cfg.Paths.Generator == "" {
		cfg.Paths.Generator = filepath.Join(cfg.Paths.BinDir, "generator")
	}
	if cfg.Seeds.First == 0 {
		cfg.Seeds.First = 1
	}
	if cfg.Seeds.Last == 0 {
		cfg.Seeds.Last = 100
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 5
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join("logs", "seedbench.log")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.Seeds.First < 1 {
		return fmt.Errorf("seeds.first must be at least 1")
	}
	if cfg.Seeds.Last < cfg.Seeds.First {
		return fmt.Errorf("seeds.last must be at least seeds.first")
	}
	if cfg.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if cfg.Sandbox.CPULimit < 0 {
		return fmt.Errorf("sandbox.cpu_limit must not be negative")
	}
	if cfg.Sandbox.MemoryLimitMB < 0 {
		return fmt.Errorf("sandbox.memory_limit_mb must not be negative")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

// Timeout returns the per-seed wall clock budget.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SeedList expands the configured seed range into the full battery.
func (c *Config) SeedList() []int {
	seeds := make([]int, 0, c.Seeds.Last-c.Seeds.First+1)
	for s := c.Seeds.First; s <= c.Seeds.Last; s++ {
		seeds = append(seeds, s)
	}
	return seeds
}

// SolverPath resolves a solver identifier to its binary under the bin dir.
func (c *Config) SolverPath(id string) string {
	return filepath.Join(c.Paths.BinDir, "solver_"+id)
}
