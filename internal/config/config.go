// Package config holds the immutable configuration value threaded through
// the pipeline entry points. Core components never read it; they take all
// parameters explicitly.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Resolutions is the enumerated set offered by the CLI. The engine accepts
// any positive resolution; this list is a convenience, not a constraint.
var Resolutions = []int{1024, 2048, 4096}

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Workspace string `yaml:"workspace"`

	// Generation service
	APIKey string `yaml:"-"` // env only, never persisted
	Model  string `yaml:"model"`

	// Grid defaults
	Cols       int `yaml:"cols"`
	Rows       int `yaml:"rows"`
	Resolution int `yaml:"resolution"`

	// Pixel quantization
	SnapperExecutable string `yaml:"snapper_executable"`
	SnapperPalette    int    `yaml:"snapper_palette"`

	Workers   int  `yaml:"workers"`
	ShowStats bool `yaml:"show_stats"`
}

// Default returns the built-in configuration rooted at workspace.
func Default(workspace string) Config {
	if workspace == "" {
		workspace = "workspace"
	}
	return Config{
		Workspace:         workspace,
		Cols:              4,
		Rows:              4,
		Resolution:        2048,
		SnapperExecutable: "pixel-snapper",
		SnapperPalette:    32,
		Workers:           0, // 0 means NumCPU downstream
	}
}

// Load builds the configuration: defaults, then settings.yaml in the
// workspace if present, then environment overrides.
func Load(workspace string) (Config, error) {
	cfg := Default(workspace)

	settingsPath := filepath.Join(cfg.Workspace, "settings.yaml")
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.APIKey = envStr("GOOGLE_API_KEY", cfg.APIKey)
	cfg.Model = envStr("VID2SPRITE_MODEL", cfg.Model)
	cfg.Resolution = envInt("VID2SPRITE_RESOLUTION", cfg.Resolution)
	cfg.SnapperExecutable = envStr("VID2SPRITE_SNAPPER", cfg.SnapperExecutable)
	cfg.SnapperPalette = envInt("VID2SPRITE_PALETTE", cfg.SnapperPalette)
	cfg.Workers = envInt("VID2SPRITE_WORKERS", cfg.Workers)

	return cfg, nil
}

// Save writes the persistable settings to settings.yaml in the workspace.
func (c Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Workspace, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Workspace, "settings.yaml"), data, 0644)
}

// Workspace layout. Directories are created on demand by their users.

func (c Config) VideosDir() string     { return filepath.Join(c.Workspace, "videos") }
func (c Config) FramesDir() string     { return filepath.Join(c.Workspace, "frames") }
func (c Config) TemplatesDir() string  { return filepath.Join(c.Workspace, "templates") }
func (c Config) CharactersDir() string { return filepath.Join(c.Workspace, "characters") }
func (c Config) OutputDir() string     { return filepath.Join(c.Workspace, "output") }
func (c Config) TempDir() string       { return filepath.Join(c.Workspace, "temp") }

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
