package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `workspace:
  root: "/tmp/workspace"

engine:
  similarity_threshold: 0.8
  strict: true

log:
  path: "/tmp/patch.log"
  development: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Workspace.Root != "/tmp/workspace" {
		t.Errorf("Workspace.Root = %q, want %q", cfg.Workspace.Root, "/tmp/workspace")
	}
	if cfg.Engine.SimilarityThreshold != 0.8 {
		t.Errorf("Engine.SimilarityThreshold = %v, want 0.8", cfg.Engine.SimilarityThreshold)
	}
	if !cfg.Engine.Strict {
		t.Error("Engine.Strict = false, want true")
	}
	if cfg.Log.Path != "/tmp/patch.log" {
		t.Errorf("Log.Path = %q, want %q", cfg.Log.Path, "/tmp/patch.log")
	}
	if !cfg.Log.Development {
		t.Error("Log.Development = false, want true")
	}
	// Unset values fall back to defaults.
	if cfg.Engine.MaxPatchSizeKB != 1024 {
		t.Errorf("Engine.MaxPatchSizeKB = %d, want 1024", cfg.Engine.MaxPatchSizeKB)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.yaml")

	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.SimilarityThreshold != 0.66 {
		t.Errorf("Engine.SimilarityThreshold = %v, want 0.66", cfg.Engine.SimilarityThreshold)
	}
	if cfg.Engine.Strict {
		t.Error("Engine.Strict = true, want false")
	}
	if cfg.Workspace.Root != "." {
		t.Errorf("Workspace.Root = %q, want %q", cfg.Workspace.Root, ".")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing file should return error")
	}
}

func TestLoadRelativeRootResolved(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "rel.yaml")

	if err := os.WriteFile(configPath, []byte("workspace:\n  root: \"./work\"\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !filepath.IsAbs(cfg.Workspace.Root) {
		t.Errorf("Workspace.Root = %q, want absolute path", cfg.Workspace.Root)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Engine.SimilarityThreshold != 0.66 {
		t.Errorf("SimilarityThreshold = %v, want 0.66", cfg.Engine.SimilarityThreshold)
	}
	if cfg.Engine.MaxPatchSizeKB != 1024 {
		t.Errorf("MaxPatchSizeKB = %d, want 1024", cfg.Engine.MaxPatchSizeKB)
	}
}
