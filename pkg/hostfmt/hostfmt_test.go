package hostfmt_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gozx/pkg/hostfmt"
)

func TestPassthrough(t *testing.T) {
	t.Parallel()

	out, err := hostfmt.Passthrough{}.Format(context.Background(), []byte("const a = 1;\n"))
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;\n", string(out))
}

func TestExec_PipesThroughCommand(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("relies on cat")
	}

	f := hostfmt.Exec{Command: []string{"cat"}}
	out, err := f.Format(context.Background(), []byte("fn main() void {}\n"))
	require.NoError(t, err)
	assert.Equal(t, "fn main() void {}\n", string(out))
}

func TestExec_MissingBinary(t *testing.T) {
	t.Parallel()

	f := hostfmt.Exec{Command: []string{"definitely-not-a-real-formatter"}}
	_, err := f.Format(context.Background(), []byte("x"))
	require.Error(t, err)
}
