package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Name != "lumen-project" {
		t.Errorf("unexpected default name %q", cfg.Name)
	}
	if len(cfg.SourceDirs) != 1 || cfg.SourceDirs[0] != "src" {
		t.Errorf("expected the default source directory, got %v", cfg.SourceDirs)
	}
}

func TestLoadOrDefaultWithoutManifest(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != Default().Name {
		t.Errorf("expected the default config, got %+v", cfg)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `name: demo
source-directories:
  - lib
  - app
max-diagnostics: 50
cache-dir: .lumen-cache
`)

	cfg, err := LoadOrDefault(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo" {
		t.Errorf("expected demo, got %q", cfg.Name)
	}
	if len(cfg.SourceDirs) != 2 || cfg.SourceDirs[0] != "lib" || cfg.SourceDirs[1] != "app" {
		t.Errorf("unexpected source dirs %v", cfg.SourceDirs)
	}
	if cfg.MaxDiagnostics != 50 || cfg.CacheDir != ".lumen-cache" {
		t.Errorf("unexpected options: %+v", cfg)
	}
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name: partial\n")

	cfg, err := LoadOrDefault(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.SourceDirs) != 1 || cfg.SourceDirs[0] != "src" {
		t.Errorf("an omitted field keeps its default, got %v", cfg.SourceDirs)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name: [unclosed\n")
	if _, err := LoadOrDefault(dir); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"empty name", Config{SourceDirs: []string{"src"}}, "name"},
		{"no source dirs", Config{Name: "p"}, "source directory"},
		{"absolute dir", Config{Name: "p", SourceDirs: []string{"/abs"}}, "relative"},
		{"negative cap", Config{Name: "p", SourceDirs: []string{"src"}, MaxDiagnostics: -1}, "max-diagnostics"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected an error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
