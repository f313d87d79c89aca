// pkg/profile/profile.go

// Package profile stores cleaning configurations as YAML files so a run can
// be repeated with the same options.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// Load reads a profile. Tunables the file leaves out take their defaults.
func Load(path string) (model.CleaningConfig, error) {
	return LoadWithFallback(path, model.CleaningConfig{})
}

// LoadWithFallback reads a profile and takes the tunables it leaves out
// (fuzzy cutoff, anomaly threshold and method) from fallback before
// applying defaults.
func LoadWithFallback(path string, fallback model.CleaningConfig) (model.CleaningConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.CleaningConfig{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var cfg model.CleaningConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return model.CleaningConfig{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if cfg.MissingStrategy != "" {
		strategy, err := model.ParseMissingStrategy(string(cfg.MissingStrategy))
		if err != nil {
			return model.CleaningConfig{}, fmt.Errorf("invalid profile %s: %w", path, err)
		}
		cfg.MissingStrategy = strategy
	}

	if cfg.FuzzyCutoff == 0 {
		cfg.FuzzyCutoff = fallback.FuzzyCutoff
	}
	if cfg.AnomalyThreshold == 0 {
		cfg.AnomalyThreshold = fallback.AnomalyThreshold
	}
	if cfg.AnomalyMethod == "" {
		cfg.AnomalyMethod = fallback.AnomalyMethod
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return model.CleaningConfig{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories. An existing file is
// only replaced when overwrite is set.
func Save(path string, cfg model.CleaningConfig, overwrite bool) error {
	if path == "" {
		return errors.New("profile path cannot be empty")
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("profile %s already exists", path)
		}
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
