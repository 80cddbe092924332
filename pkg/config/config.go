// Package config defines configuration types for gozx.
// These types are pure data structures; file loading lives in load.go and
// CLI flag binding in the cli package.
package config

import (
	"fmt"
	"strings"
)

// ConfigFileName is the per-project configuration file searched for from
// the working directory upward.
const ConfigFileName = ".gozx.yaml"

// HostFormatterConfig names the external host-language pretty-printer.
type HostFormatterConfig struct {
	// Command is the argv of the formatter, fed source on stdin.
	// Empty means no host formatting (markup is still canonicalized).
	Command []string `yaml:"command"`
}

// BuildConfig controls transpile output.
type BuildConfig struct {
	// OutDir is where generated host files are written.
	OutDir string `yaml:"out_dir"`

	// ComponentDir is the directory prefix for default client component
	// paths.
	ComponentDir string `yaml:"component_dir"`

	// Sourcemap enables source-map emission next to generated files.
	Sourcemap bool `yaml:"sourcemap"`

	// Manifest is the path of the client component manifest, relative to
	// OutDir. Empty disables the manifest.
	Manifest string `yaml:"manifest"`
}

// Config is the root configuration for gozx.
type Config struct {
	// Extensions is the set of template file extensions (with leading dot).
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files and directories to skip.
	Ignore []string `yaml:"ignore"`

	// IncludeVendored disables the vendored-path skip during discovery.
	IncludeVendored bool `yaml:"include_vendored"`

	// HostFormatter configures the host pretty-printer used by fmt.
	HostFormatter HostFormatterConfig `yaml:"host_formatter"`

	// Build configures the transpile command.
	Build BuildConfig `yaml:"build"`

	// CLI-level options (not persisted to config files).

	// Write rewrites files in place (fmt -w).
	Write bool `yaml:"-"`

	// Check exits non-zero when any file would change (fmt --check).
	Check bool `yaml:"-"`

	// Jobs is the worker count; 0 means one per CPU.
	Jobs int `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Extensions: []string{".zx"},
		Build: BuildConfig{
			OutDir:       "zx-out",
			ComponentDir: "components",
			Manifest:     "components.yaml",
		},
	}
}

// Validate checks field invariants.
func (c *Config) Validate() error {
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative, got %d", c.Jobs)
	}
	if c.Build.OutDir == "" {
		return fmt.Errorf("build.out_dir must not be empty")
	}
	return nil
}
