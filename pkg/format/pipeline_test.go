package format_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gozx/pkg/format"
	"github.com/yaklabco/gozx/pkg/hostfmt"
)

// failingFormatter always errors, standing in for a missing or broken
// host pretty-printer binary.
type failingFormatter struct{}

func (failingFormatter) Format(context.Context, []byte) ([]byte, error) {
	return nil, errors.New("host formatter unavailable")
}

func TestFile_PatchesBlocksAtHostIndent(t *testing.T) {
	t.Parallel()

	src := "fn page() zx.Node {\n    return (<div>\nx\n</div>);\n}\n"
	want := "fn page() zx.Node {\n    return (<div>\n        x\n    </div>);\n}\n"

	out, err := format.File(context.Background(), []byte(src), hostfmt.Passthrough{})
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestFile_HostFormatterFailureFallsBack(t *testing.T) {
	t.Parallel()

	src := "fn page() zx.Node {\n    return (<div>x</div>);\n}\n"

	out, err := format.File(context.Background(), []byte(src), failingFormatter{})
	require.NoError(t, err)
	// Markup is still canonicalized against the unformatted skeleton.
	assert.Equal(t, src, string(out))
}

func TestFile_NoBlocks(t *testing.T) {
	t.Parallel()

	src := "const a = 1;\n"

	t.Run("formatter output used", func(t *testing.T) {
		t.Parallel()
		out, err := format.File(context.Background(), []byte(src), hostfmt.Passthrough{})
		require.NoError(t, err)
		assert.Equal(t, src, string(out))
	})

	t.Run("formatter failure returns input copy", func(t *testing.T) {
		t.Parallel()
		out, err := format.File(context.Background(), []byte(src), failingFormatter{})
		require.NoError(t, err)
		assert.Equal(t, src, string(out))
	})
}

func TestFile_MultipleBlocks(t *testing.T) {
	t.Parallel()

	src := "const a = (<b>1</b>);\nconst b = (<i   >2</i>);\n"
	want := "const a = (<b>1</b>);\nconst b = (<i>2</i>);\n"

	out, err := format.File(context.Background(), []byte(src), hostfmt.Passthrough{})
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestFile_SentinelLookalikesSurvive(t *testing.T) {
	t.Parallel()

	src := "const s = \"__ZX_BLOCK_\";\nconst n = \"__ZX_BLOCK_9__\";\nconst r = (<b>x</b>);\n"

	out, err := format.File(context.Background(), []byte(src), hostfmt.Passthrough{})
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestFile_PlaceholderConsumedOnce(t *testing.T) {
	t.Parallel()

	// A host string spelling an already-consumed token stays host text
	// instead of receiving a second copy of the block.
	src := "const r = (<b>x</b>);\nconst s = \"__ZX_BLOCK_0__\";\n"

	out, err := format.File(context.Background(), []byte(src), hostfmt.Passthrough{})
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestFile_ParseErrorIsFatal(t *testing.T) {
	t.Parallel()

	_, err := format.File(context.Background(), []byte("const r = (<b>x</i>);\n"), hostfmt.Passthrough{})
	require.Error(t, err)
}
