// Package runtimeconfig loads the process-level configuration for
// cmd/stunsched: listen address, sqlite path, default tuning overrides,
// default histogram run count. This is distinct from internal/config,
// which loads the *project* description a run optimizes over.
//
// Grounded on the teacher's daemon config (nested TOML tables, a
// DefaultConfig constructor, human-readable durations parsed by hand)
// even though that package's config.go itself was never retrieved —
// its config_test.go fixes the shape (API.Host/Port, nested groups,
// string-encoded durations) closely enough to rebuild from.
package runtimeconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/stunsched/stunsched/internal/stun"
)

// Config is the full process configuration, loaded from an optional
// TOML file whose location cmd/stunsched takes from --config or
// $STUNSCHED_HOME; only Histogram's default run count has a flag
// override there.
type Config struct {
	API       APIConfig       `toml:"api"`
	Store     StoreConfig     `toml:"store"`
	Optimizer OptimizerConfig `toml:"optimizer"`
	Histogram HistogramConfig `toml:"histogram"`
}

type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type StoreConfig struct {
	// Path is the sqlite database file. Empty means ":memory:" — no
	// persistence across process restarts.
	Path string `toml:"path"`
}

type OptimizerConfig struct {
	NumJobs int `toml:"num_jobs"`

	BatchSize     int     `toml:"batch_size"`
	MaxIdleIters  int64   `toml:"max_idle_iters"`
	BetaScale     float64 `toml:"beta_scale"`
	StunWindow    int     `toml:"stun_window"`
	Gamma         float64 `toml:"gamma"`
	RestartPeriod int64   `toml:"restart_period"`
	WarmupEpochs  int     `toml:"warmup_epochs"`
}

type HistogramConfig struct {
	DefaultRuns int `toml:"default_runs"`
}

// DefaultConfig returns the configuration used when no TOML file is
// present and no overrides are given.
func DefaultConfig() Config {
	t := stun.DefaultTuning()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Store: StoreConfig{
			Path: "",
		},
		Optimizer: OptimizerConfig{
			NumJobs:       4,
			BatchSize:     t.BatchSize,
			MaxIdleIters:  t.MaxIdleIters,
			BetaScale:     t.BetaScale,
			StunWindow:    t.StunWindow,
			Gamma:         t.Gamma,
			RestartPeriod: t.RestartPeriod,
			WarmupEpochs:  t.WarmupEpochs,
		},
		Histogram: HistogramConfig{
			DefaultRuns: 100,
		},
	}
}

// Tuning converts the loaded optimizer section into a stun.Tuning.
func (c Config) Tuning() stun.Tuning {
	return stun.Tuning{
		BatchSize:     c.Optimizer.BatchSize,
		MaxIdleIters:  c.Optimizer.MaxIdleIters,
		BetaScale:     c.Optimizer.BetaScale,
		StunWindow:    c.Optimizer.StunWindow,
		Gamma:         c.Optimizer.Gamma,
		RestartPeriod: c.Optimizer.RestartPeriod,
		WarmupEpochs:  c.Optimizer.WarmupEpochs,
	}
}

// Addr is the host:port the API server should bind to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// DefaultPath returns ~/.stunsched/config.toml, honoring $STUNSCHED_HOME
// the way the teacher's CLI honors $TUTU_HOME.
func DefaultPath() string {
	if env := os.Getenv("STUNSCHED_HOME"); env != "" {
		return filepath.Join(env, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stunsched/config.toml"
	}
	return filepath.Join(home, ".stunsched", "config.toml")
}

// Load reads path on top of DefaultConfig, leaving any field path
// doesn't mention at its default. A missing file is not an error — it
// just means "use the defaults."
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}
