package cli

import "github.com/yaklabco/gozx/pkg/runner"

// Exit codes for gozx.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitChanged indicates check mode found files needing formatting.
	ExitChanged = 1

	// ExitProcessErrors indicates one or more files failed to process.
	ExitProcessErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on result and check mode.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitProcessErrors
	}

	if check && result.HasChanges() {
		return ExitChanged
	}

	return ExitSuccess
}
