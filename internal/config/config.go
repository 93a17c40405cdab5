// Package config loads, validates and persists the reclaim configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Scan       ScanConfig       `yaml:"scan"`
	Progress   ProgressConfig   `yaml:"progress"`
	Quarantine QuarantineConfig `yaml:"quarantine"`
	Verbose    bool             `yaml:"verbose"`
}

// ScanConfig controls traversal behavior.
type ScanConfig struct {
	// ExtraRoots are scanned in addition to the platform defaults.
	ExtraRoots []RootConfig `yaml:"extra_roots"`
	// MaxDepth bounds breadth-first discovery below a root.
	MaxDepth int `yaml:"max_depth"`
	// Workers sizes the traversal pool; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// ExcludePatterns are directory base names (glob syntax) that
	// discovery never descends into.
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// RootConfig describes one configured scan root.
type RootConfig struct {
	Path string `yaml:"path"`
	// Mode is "children" (default) or "discover".
	Mode string `yaml:"mode"`
}

// ProgressConfig controls snapshot emission.
type ProgressConfig struct {
	// IntervalMS is the minimum time between progress snapshots.
	IntervalMS int `yaml:"interval_ms"`
}

// QuarantineConfig controls the reversible-removal engine.
type QuarantineConfig struct {
	// TrashDir overrides the platform trash location (tests, odd setups).
	TrashDir string `yaml:"trash_dir"`
	// ProtectedPaths are refused even when reported as candidates.
	ProtectedPaths []string `yaml:"protected_paths"`
}

// Interval returns the snapshot throttle as a duration.
func (p ProgressConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 1 {
		return fmt.Errorf("scan max_depth must be >= 1")
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan workers must be >= 0")
	}
	if c.Progress.IntervalMS < 0 {
		return fmt.Errorf("progress interval_ms must be >= 0")
	}

	for _, root := range c.Scan.ExtraRoots {
		if !filepath.IsAbs(root.Path) {
			return fmt.Errorf("scan root must be absolute: %s", root.Path)
		}
		switch root.Mode {
		case "", "children", "discover":
		default:
			return fmt.Errorf("unknown root mode %q for %s", root.Mode, root.Path)
		}
	}

	for _, pattern := range c.Scan.ExcludePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	for _, path := range c.Quarantine.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	if c.Quarantine.TrashDir != "" && !filepath.IsAbs(c.Quarantine.TrashDir) {
		return fmt.Errorf("trash_dir must be absolute: %s", c.Quarantine.TrashDir)
	}

	return nil
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "reclaim", "config.yaml")
}

// GetReportCachePath returns where the CLI caches the last scan report so
// a later quarantine invocation can rebuild its scope.
func GetReportCachePath() string {
	return filepath.Join(xdg.CacheHome, "reclaim", "last_scan.json")
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath := GetConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
