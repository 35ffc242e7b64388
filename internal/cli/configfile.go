package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig holds defaults loaded from the optional YAML config file.
// Location: HYPERGREP_CONFIG env var, or ~/.hypergrep.yaml. Pointer fields
// distinguish "not set" from zero values.
type FileConfig struct {
	ChunkSize *int    `yaml:"chunk_size"`
	Workers   *int    `yaml:"workers"`
	Color     *string `yaml:"color"`
	Hidden    *bool   `yaml:"hidden"`
	NoIgnore  *bool   `yaml:"no_ignore"`
}

// LoadFileConfig reads the config file if one exists. A missing file is not
// an error; a malformed one is.
func LoadFileConfig() (*FileConfig, error) {
	path := os.Getenv("HYPERGREP_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil
		}
		path = filepath.Join(home, ".hypergrep.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// Apply copies file-config defaults into cfg for every setting the user did
// not set explicitly on the command line. changed reports whether a flag was
// passed explicitly.
func (fc *FileConfig) Apply(cfg *Config, changed func(name string) bool) error {
	if fc == nil {
		return nil
	}
	if fc.ChunkSize != nil && !changed("chunk-size") {
		cfg.ChunkSize = *fc.ChunkSize
	}
	if fc.Workers != nil && !changed("workers") {
		cfg.Workers = *fc.Workers
	}
	if fc.Color != nil && !changed("color") {
		mode, err := ParseColorMode(*fc.Color)
		if err != nil {
			return err
		}
		cfg.Color = mode
	}
	if fc.Hidden != nil && !changed("hidden") {
		cfg.Hidden = *fc.Hidden
	}
	if fc.NoIgnore != nil && !changed("no-ignore") {
		cfg.NoIgnore = *fc.NoIgnore
	}
	return nil
}
