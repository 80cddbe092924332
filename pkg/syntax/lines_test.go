package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gozx/pkg/syntax"
)

func TestPositionAt(t *testing.T) {
	t.Parallel()

	tree, err := syntax.ParseFile([]byte("abc\ndef\n\nxy"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		offset int
		line   int
		col    int
	}{
		{name: "start of file", offset: 0, line: 1, col: 1},
		{name: "middle of first line", offset: 2, line: 1, col: 3},
		{name: "start of second line", offset: 4, line: 2, col: 1},
		{name: "empty line", offset: 8, line: 3, col: 1},
		{name: "last line", offset: 10, line: 4, col: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			line, col := tree.PositionAt(tt.offset)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.col, col)
		})
	}
}
