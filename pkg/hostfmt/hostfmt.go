// Package hostfmt defines the host-language pretty-printer collaborator.
//
// The formatter pipeline hands it a skeleton of the file with template
// blocks replaced by placeholder identifiers; the host formatter never sees
// markup. Failures are recoverable: callers fall back to the unformatted
// skeleton.
package hostfmt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter formats host-language source text.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Passthrough returns input unchanged. Used when no host formatter is
// configured and in tests.
type Passthrough struct{}

// Format returns src as-is.
func (Passthrough) Format(_ context.Context, src []byte) ([]byte, error) {
	return src, nil
}

// Exec runs an external formatter command, feeding source on stdin and
// reading the formatted result from stdout ("zig fmt --stdin" style).
type Exec struct {
	// Command is the argv of the formatter, e.g. ["zig", "fmt", "--stdin"].
	Command []string
}

// NewExec creates an Exec formatter from a command line.
func NewExec(command []string) *Exec {
	return &Exec{Command: command}
}

// Format runs the configured command. A non-zero exit is returned as an
// error carrying the command's stderr.
func (e *Exec) Format(ctx context.Context, src []byte) ([]byte, error) {
	if len(e.Command) == 0 {
		return nil, fmt.Errorf("host formatter: empty command")
	}

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Stdin = bytes.NewReader(src)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("host formatter %q: %w: %s", e.Command[0], err, msg)
		}
		return nil, fmt.Errorf("host formatter %q: %w", e.Command[0], err)
	}
	return stdout.Bytes(), nil
}
