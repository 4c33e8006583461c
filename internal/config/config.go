package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sessionguardian/session-guardian/internal/guard"
	"github.com/sessionguardian/session-guardian/internal/state"
)

// DefaultFile is the optional YAML config probed when no path is given.
const DefaultFile = "guardian.yaml"

// Config is the static per-session configuration, read once at startup.
// Precedence: defaults < YAML file < GUARDIAN_* environment variables.
type Config struct {
	ContextWindow int     `yaml:"context_window"`
	SoftThreshold float64 `yaml:"soft_threshold"`
	HardThreshold float64 `yaml:"hard_threshold"`
	StateDir      string  `yaml:"state_dir"`
	PruneDays     int     `yaml:"prune_days"`
}

// Load assembles the session config. path selects the YAML file; when empty,
// DefaultFile is used if present. Threshold ordering is validated here so a
// bad config fails before the session starts.
func Load(path string) (Config, error) {
	cfg := Config{
		ContextWindow: 200000,
		SoftThreshold: 0.60,
		HardThreshold: 0.80,
		StateDir:      state.DefaultDirName,
		PruneDays:     7,
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file is fine; defaults plus env apply.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	// Same validation the guard package applies at construction.
	if _, err := guard.NewConfig(cfg.ContextWindow, cfg.SoftThreshold, cfg.HardThreshold); err != nil {
		return Config{}, err
	}
	if cfg.PruneDays <= 0 {
		return Config{}, fmt.Errorf("config: prune days must be positive, got %d", cfg.PruneDays)
	}
	return cfg, nil
}

// Guard converts the loaded values into a validated guardian config.
func (c Config) Guard() (guard.Config, error) {
	return guard.NewConfig(c.ContextWindow, c.SoftThreshold, c.HardThreshold)
}

// PruneMaxAge returns the snapshot retention window.
func (c Config) PruneMaxAge() time.Duration {
	return time.Duration(c.PruneDays) * 24 * time.Hour
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GUARDIAN_CONTEXT_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: GUARDIAN_CONTEXT_WINDOW=%q: %w", v, err)
		}
		c.ContextWindow = n
	}
	if v := os.Getenv("GUARDIAN_SOFT_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: GUARDIAN_SOFT_THRESHOLD=%q: %w", v, err)
		}
		c.SoftThreshold = f
	}
	if v := os.Getenv("GUARDIAN_HARD_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: GUARDIAN_HARD_THRESHOLD=%q: %w", v, err)
		}
		c.HardThreshold = f
	}
	if v := os.Getenv("GUARDIAN_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("GUARDIAN_PRUNE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: GUARDIAN_PRUNE_DAYS=%q: %w", v, err)
		}
		c.PruneDays = n
	}
	return nil
}
