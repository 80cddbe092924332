package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gozx/pkg/config"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, []string{".zx"}, cfg.Extensions)
	assert.Equal(t, "zx-out", cfg.Build.OutDir)
	assert.Equal(t, "components", cfg.Build.ComponentDir)
	assert.False(t, cfg.Build.Sourcemap)
	require.NoError(t, cfg.Validate())
}

func TestFromYAML_OverridesDefaults(t *testing.T) {
	t.Parallel()

	data := []byte(`
extensions: [".zx", ".tpl"]
ignore:
  - "gen/**"
host_formatter:
  command: ["zig", "fmt", "--stdin"]
build:
  out_dir: build/zx
  sourcemap: true
`)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, []string{".zx", ".tpl"}, cfg.Extensions)
	assert.Equal(t, []string{"gen/**"}, cfg.Ignore)
	assert.Equal(t, []string{"zig", "fmt", "--stdin"}, cfg.HostFormatter.Command)
	assert.Equal(t, "build/zx", cfg.Build.OutDir)
	assert.True(t, cfg.Build.Sourcemap)
	// Untouched fields keep their defaults.
	assert.Equal(t, "components", cfg.Build.ComponentDir)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte(":\n  - ["))
		require.Error(t, err)
	})

	t.Run("extension without dot", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte(`extensions: ["zx"]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must start with a dot")
	})

	t.Run("empty out dir", func(t *testing.T) {
		t.Parallel()
		_, err := config.FromYAML([]byte("build:\n  out_dir: \"\"\n  component_dir: c\n"))
		require.Error(t, err)
	})
}

func TestDiscover_WalksUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	cfgPath := filepath.Join(root, config.ConfigFileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("build:\n  out_dir: custom\n"), 0o644))

	cfg, found, err := config.Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, found)
	assert.Equal(t, "custom", cfg.Build.OutDir)
}

func TestDiscover_NoFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, found, err := config.Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, "zx-out", cfg.Build.OutDir)
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"vendor/**"}
	cfg.Build.Sourcemap = true

	data, err := cfg.ToYAML()
	require.NoError(t, err)

	back, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Ignore, back.Ignore)
	assert.True(t, back.Build.Sourcemap)
}
