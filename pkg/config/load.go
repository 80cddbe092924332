package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FromYAML parses a configuration from YAML bytes on top of defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFile reads and parses one configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover walks from startDir toward the filesystem root looking for
// ConfigFileName. It returns the defaults when no file exists; only a
// file that exists but cannot be read or parsed is an error.
func Discover(startDir string) (*Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", startDir, err)
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, statErr := os.Stat(path); statErr == nil {
			cfg, loadErr := LoadFile(path)
			if loadErr != nil {
				return nil, "", loadErr
			}
			return cfg, path, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return nil, "", fmt.Errorf("stat %s: %w", path, statErr)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return NewConfig(), "", nil
		}
		dir = parent
	}
}
