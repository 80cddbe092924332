package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gozx/internal/logging"
	"github.com/yaklabco/gozx/internal/ui/pretty"
	"github.com/yaklabco/gozx/pkg/config"
	"github.com/yaklabco/gozx/pkg/hostfmt"
	"github.com/yaklabco/gozx/pkg/syntax"
)

// commandContext returns the command's context with the run logger
// attached, so file processors on worker goroutines log with the
// command's fields.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default().With(logging.FieldCommand, cmd.Name())
	return logging.WithLogger(ctx, logger)
}

// loadConfig resolves the effective configuration: the --config flag when
// given, otherwise upward discovery from the working directory.
func loadConfig(cmd *cobra.Command, workDir string) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	if configPath != "" {
		cfg, loadErr := config.LoadFile(configPath)
		if loadErr != nil {
			return nil, loadErr
		}
		logger.Debug("configuration loaded", logging.FieldConfig, configPath)
		return cfg, nil
	}

	cfg, found, err := config.Discover(workDir)
	if err != nil {
		return nil, err
	}
	if found != "" {
		logger.Debug("configuration discovered", logging.FieldConfig, found)
	}
	return cfg, nil
}

// newStyles builds output styles honoring the persistent --color flag.
func newStyles(cmd *cobra.Command) *pretty.Styles {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode, os.Stdout))
}

// hostFormatter selects the configured host pretty-printer, or a
// passthrough when none is configured.
func hostFormatter(cfg *config.Config) hostfmt.Formatter {
	if len(cfg.HostFormatter.Command) == 0 {
		return hostfmt.Passthrough{}
	}
	return hostfmt.NewExec(cfg.HostFormatter.Command)
}

// countBlocks reports how many template blocks a file contains. Returns 0
// when the file does not parse; callers surface the parse error separately.
func countBlocks(content []byte) int {
	tree, err := syntax.ParseFile(content)
	if err != nil {
		return 0
	}
	return len(syntax.Blocks(tree.Root))
}
