// Package main is the entry point for the gozx CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/gozx/internal/cli"
	"github.com/yaklabco/gozx/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Build and execute the root command.
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Signal errors carry the exit code; only real failures are logged.
		switch {
		case errors.Is(err, cli.ErrFilesNeedFormatting):
			return cli.ExitChanged
		case errors.Is(err, cli.ErrRunFailed):
			return cli.ExitProcessErrors
		}

		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		return 1
	}

	return cli.ExitSuccess
}
