// Package project loads the lumen.yaml manifest describing a source
// tree to analyze.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file the check command looks for in a project
// root.
const ManifestName = "lumen.yaml"

// Config is the project manifest.
type Config struct {
	// Name labels the project in reports.
	Name string `yaml:"name"`

	// SourceDirs lists the directories scanned for .lum files,
	// relative to the manifest. Defaults to ["src"].
	SourceDirs []string `yaml:"source-directories"`

	// MaxDiagnostics caps the diagnostics reported per run.
	// Zero means unlimited.
	MaxDiagnostics int `yaml:"max-diagnostics"`

	// CacheDir, when set, enables the export snapshot cache.
	CacheDir string `yaml:"cache-dir"`
}

func Default() Config {
	return Config{
		Name:       "lumen-project",
		SourceDirs: []string{"src"},
	}
}

// Load reads and validates the manifest at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read manifest: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the manifest from dir, falling back to defaults
// when no manifest exists.
func LoadOrDefault(dir string) (Config, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("manifest: name must not be empty")
	}
	if len(c.SourceDirs) == 0 {
		return fmt.Errorf("manifest: at least one source directory is required")
	}
	for _, d := range c.SourceDirs {
		if filepath.IsAbs(d) {
			return fmt.Errorf("manifest: source directory %q must be relative", d)
		}
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("manifest: max-diagnostics must not be negative")
	}
	return nil
}
