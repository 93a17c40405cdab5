package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetDefault(t *testing.T) {
	cfg := GetDefault()

	if cfg.Scan.MaxDepth != DefaultMaxDepth {
		t.Errorf("default max_depth = %d, want %d", cfg.Scan.MaxDepth, DefaultMaxDepth)
	}
	if cfg.Scan.Workers != 0 {
		t.Errorf("default workers = %d, want 0 (auto)", cfg.Scan.Workers)
	}
	if cfg.Progress.IntervalMS != DefaultIntervalMS {
		t.Errorf("default interval_ms = %d, want %d", cfg.Progress.IntervalMS, DefaultIntervalMS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scan.MaxDepth != DefaultMaxDepth {
		t.Errorf("missing file should yield defaults, got max_depth %d", cfg.Scan.MaxDepth)
	}
}

func TestLoadParsesAndMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
scan:
  max_depth: 4
  extra_roots:
    - path: /srv/projects
      mode: discover
  exclude_patterns:
    - ".git"
progress:
  interval_ms: 250
verbose: true
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scan.MaxDepth != 4 {
		t.Errorf("max_depth = %d, want 4", cfg.Scan.MaxDepth)
	}
	if len(cfg.Scan.ExtraRoots) != 1 || cfg.Scan.ExtraRoots[0].Path != "/srv/projects" {
		t.Errorf("extra_roots = %+v", cfg.Scan.ExtraRoots)
	}
	if cfg.Scan.ExtraRoots[0].Mode != "discover" {
		t.Errorf("root mode = %q, want discover", cfg.Scan.ExtraRoots[0].Mode)
	}
	if got := cfg.Progress.Interval(); got != 250*time.Millisecond {
		t.Errorf("interval = %v, want 250ms", got)
	}
	if !cfg.Verbose {
		t.Error("verbose not parsed")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scan: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed yaml")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero depth", func(c *Config) { c.Scan.MaxDepth = 0 }},
		{"negative workers", func(c *Config) { c.Scan.Workers = -1 }},
		{"negative interval", func(c *Config) { c.Progress.IntervalMS = -5 }},
		{"relative root", func(c *Config) {
			c.Scan.ExtraRoots = []RootConfig{{Path: "projects"}}
		}},
		{"unknown root mode", func(c *Config) {
			c.Scan.ExtraRoots = []RootConfig{{Path: "/srv/projects", Mode: "sideways"}}
		}},
		{"bad exclude pattern", func(c *Config) {
			c.Scan.ExcludePatterns = []string{"[unclosed"}
		}},
		{"relative protected path", func(c *Config) {
			c.Quarantine.ProtectedPaths = []string{"stuff"}
		}},
		{"relative trash dir", func(c *Config) {
			c.Quarantine.TrashDir = "trash"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted invalid config")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.yaml")

	cfg := GetDefault()
	cfg.Scan.MaxDepth = 3
	cfg.Quarantine.ProtectedPaths = []string{"/home/test/.ssh"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Scan.MaxDepth != 3 {
		t.Errorf("round-tripped max_depth = %d, want 3", loaded.Scan.MaxDepth)
	}
	if len(loaded.Quarantine.ProtectedPaths) != 1 {
		t.Errorf("round-tripped protected paths = %v", loaded.Quarantine.ProtectedPaths)
	}
}
