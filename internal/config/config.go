// Package config loads the YAML configuration for the patch tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Workspace struct {
		Root string `yaml:"root"`
	} `yaml:"workspace"`

	Engine struct {
		// SimilarityThreshold is the minimum similarity for the fuzziest
		// context-search pass (default 0.66).
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		// Strict fails the whole patch on the first unmatched chunk instead
		// of warning and skipping.
		Strict bool `yaml:"strict"`
		// MaxPatchSizeKB rejects patch texts larger than this (default 1024).
		MaxPatchSizeKB int `yaml:"max_patch_size_kb"`
	} `yaml:"engine"`

	Log struct {
		Path        string `yaml:"path"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Workspace.Root != "" {
		absRoot, err := filepath.Abs(cfg.Workspace.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
		}
		cfg.Workspace.Root = absRoot
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = "."
	}
	if cfg.Engine.SimilarityThreshold == 0 {
		cfg.Engine.SimilarityThreshold = 0.66
	}
	if cfg.Engine.MaxPatchSizeKB == 0 {
		cfg.Engine.MaxPatchSizeKB = 1024
	}
}
