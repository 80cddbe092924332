package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gozx/pkg/syntax"
)

func TestParseFile_HostAndBlocks(t *testing.T) {
	t.Parallel()

	src := "const a = f(x);\nconst r = (<div>x</div>);\nconst b = g(y);\n"
	tree, err := syntax.ParseFile([]byte(src))
	require.NoError(t, err)

	kids := tree.Root.Children()
	require.Len(t, kids, 3)
	assert.Equal(t, syntax.KindHostNode, kids[0].Kind)
	assert.Equal(t, syntax.KindBlock, kids[1].Kind)
	assert.Equal(t, syntax.KindHostNode, kids[2].Kind)

	assert.Equal(t, "const a = f(x);\nconst r = ", tree.Text(kids[0]))
	assert.Equal(t, "(<div>x</div>)", tree.Text(kids[1]))
	assert.Equal(t, ";\nconst b = g(y);\n", tree.Text(kids[2]))
}

func TestParseFile_IgnoresBlockLookalikes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "plain call", src: "const a = f(x < y);\n"},
		{name: "inside string literal", src: "const s = \"(<div></div>)\";\n"},
		{name: "inside line comment", src: "// (<div>x</div>)\nconst a = 1;\n"},
		{name: "comparison in parens", src: "if (a<b) {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree, err := syntax.ParseFile([]byte(tt.src))
			require.NoError(t, err)
			assert.Empty(t, syntax.Blocks(tree.Root))
		})
	}
}

func TestParseFile_DetectsFragmentBlock(t *testing.T) {
	t.Parallel()

	tree, err := syntax.ParseFile([]byte("const r = (<>a</>);\n"))
	require.NoError(t, err)

	blocks := syntax.Blocks(tree.Root)
	require.Len(t, blocks, 1)
	assert.Equal(t, syntax.KindFragment, blocks[0].Child(0).Kind)
}

func TestParseBlock_RejectsTrailingContent(t *testing.T) {
	t.Parallel()

	_, err := syntax.ParseBlock([]byte("(<div>x</div>) extra"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing content")
}

func TestParseBlock_AttributeForms(t *testing.T) {
	t.Parallel()

	src := `(<div a="v" b={x} c @rendering=".csr" {short} @{alloc} {..props}>t</div>)`
	tree, err := syntax.ParseBlock([]byte(src))
	require.NoError(t, err)

	el := tree.Root.Child(0)
	require.Equal(t, syntax.KindElement, el.Kind)
	st := el.ChildByFieldName("start_tag")
	require.NotNil(t, st)

	var kinds []syntax.NodeKind
	for _, a := range st.Children() {
		if a.Kind.IsAttribute() {
			kinds = append(kinds, a.Kind)
		}
	}
	assert.Equal(t, []syntax.NodeKind{
		syntax.KindAttribute,
		syntax.KindAttribute,
		syntax.KindAttribute,
		syntax.KindBuiltinAttribute,
		syntax.KindShorthandAttribute,
		syntax.KindBuiltinShorthandAttribute,
		syntax.KindSpreadAttribute,
	}, kinds)

	// The bare attribute has no value field.
	var bare *syntax.Node
	for _, a := range st.Children() {
		if a.Kind == syntax.KindAttribute && tree.Text(a.ChildByFieldName("name")) == "c" {
			bare = a
		}
	}
	require.NotNil(t, bare)
	assert.Nil(t, bare.ChildByFieldName("value"))
}

func TestParseBlock_SpreadExpressionExcludesDots(t *testing.T) {
	t.Parallel()

	tree, err := syntax.ParseBlock([]byte(`(<div {..props} />)`))
	require.NoError(t, err)

	st := tree.Root.Child(0).ChildByFieldName("start_tag")
	var spread *syntax.Node
	for _, a := range st.Children() {
		if a.Kind == syntax.KindSpreadAttribute {
			spread = a
		}
	}
	require.NotNil(t, spread)
	assert.Equal(t, "props", tree.Text(spread.ChildByFieldName("expression")))
}

func TestParseBlock_MismatchedClosingTag(t *testing.T) {
	t.Parallel()

	_, err := syntax.ParseBlock([]byte("(<div>\n  x\n</span>)"))
	require.Error(t, err)

	var pe *syntax.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, 3, pe.Column)
}

func TestParseBlock_UnterminatedAttributeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "cut at end of input", input: `(<div a="x`},
		{name: "trailing escape at end of input", input: "(<div a=\"x\\"},
		{name: "cut at newline", input: "(<div a=\"x\n</div>)"},
		{name: "escaped quote only", input: `(<div a="\"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := syntax.ParseFile([]byte(tt.input))
			require.Error(t, err)

			var pe *syntax.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Msg, "unterminated attribute string")
		})
	}
}

func TestParseBlock_ControlFlowStructured(t *testing.T) {
	t.Parallel()

	src := `(<div>{if (user) |u| (<b>{u}</b>) else (<i>x</i>)}</div>)`
	tree, err := syntax.ParseBlock([]byte(src))
	require.NoError(t, err)

	var eb *syntax.Node
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindExpressionBlock {
			eb = n
		}
		return true
	})
	require.NotNil(t, eb)

	cf := eb.ChildByFieldName("control_flow")
	require.NotNil(t, cf)
	require.Equal(t, syntax.KindIf, cf.Kind)
	assert.Equal(t, "user", tree.Text(cf.ChildByFieldName("condition")))
	assert.Equal(t, "|u|", tree.Text(cf.ChildByFieldName("payload")))
	assert.Equal(t, syntax.KindElement, cf.ChildByFieldName("consequence").Kind)
	assert.Equal(t, syntax.KindElement, cf.ChildByFieldName("alternative").Kind)
}

func TestParseBlock_ElseIfChain(t *testing.T) {
	t.Parallel()

	src := `(<div>{if (a) (<b>1</b>) else if (c) (<i>2</i>)}</div>)`
	tree, err := syntax.ParseBlock([]byte(src))
	require.NoError(t, err)

	var cf *syntax.Node
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindIf && cf == nil {
			cf = n
		}
		return true
	})
	require.NotNil(t, cf)
	assert.Equal(t, syntax.KindIf, cf.ChildByFieldName("alternative").Kind)
}

func TestParseBlock_WhileWithStepAndElse(t *testing.T) {
	t.Parallel()

	src := `(<div>{while (it.next()) |v| : (i += 1) (<b>{v}</b>) else (<i>done</i>)}</div>)`
	tree, err := syntax.ParseBlock([]byte(src))
	require.NoError(t, err)

	var cf *syntax.Node
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindWhile {
			cf = n
		}
		return true
	})
	require.NotNil(t, cf)
	assert.Equal(t, "it.next()", tree.Text(cf.ChildByFieldName("condition")))
	assert.Equal(t, "i += 1", tree.Text(cf.ChildByFieldName("continue")))
	assert.NotNil(t, cf.ChildByFieldName("else"))
}

func TestParseBlock_SwitchCases(t *testing.T) {
	t.Parallel()

	src := `(<div>{switch (s) { .a => "one", .b, .c => (<b>x</b>), else => (expr) }}</div>)`
	tree, err := syntax.ParseBlock([]byte(src))
	require.NoError(t, err)

	var sw *syntax.Node
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindSwitch {
			sw = n
		}
		return true
	})
	require.NotNil(t, sw)

	var patterns []string
	var valueKinds []syntax.NodeKind
	for _, c := range sw.Children() {
		if c.Kind != syntax.KindSwitchCase {
			continue
		}
		patterns = append(patterns, tree.Text(c.ChildByFieldName("pattern")))
		valueKinds = append(valueKinds, c.ChildByFieldName("value").Kind)
	}
	assert.Equal(t, []string{".a", ".b, .c", "else"}, patterns)
	assert.Equal(t, []syntax.NodeKind{
		syntax.KindStringLiteral,
		syntax.KindElement,
		syntax.KindHostNode,
	}, valueKinds)
}

func TestParseBlock_MalformedControlFlowStaysOpaque(t *testing.T) {
	t.Parallel()

	src := `(<div>{if (x) bare}</div>)`
	tree, err := syntax.ParseBlock([]byte(src))
	require.NoError(t, err)

	var eb *syntax.Node
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindExpressionBlock {
			eb = n
		}
		return true
	})
	require.NotNil(t, eb)
	assert.Nil(t, eb.ChildByFieldName("control_flow"))
	assert.Equal(t, "if (x) bare", tree.Text(eb.ChildByFieldName("expression")))
}

func TestParseBlock_RawContent(t *testing.T) {
	t.Parallel()

	t.Run("raw tag captures markup verbatim", func(t *testing.T) {
		t.Parallel()
		tree, err := syntax.ParseBlock([]byte(`(<raw><svg viewBox="0 0 1 1"><path /></svg></raw>)`))
		require.NoError(t, err)

		el := tree.Root.Child(0)
		var text *syntax.Node
		for _, c := range el.Children() {
			if c.Kind == syntax.KindText {
				text = c
			}
		}
		require.NotNil(t, text)
		assert.Equal(t, `<svg viewBox="0 0 1 1"><path /></svg>`, tree.Text(text))
	})

	t.Run("nested same-name tags balance", func(t *testing.T) {
		t.Parallel()
		tree, err := syntax.ParseBlock([]byte(`(<raw>a<raw>b</raw>c</raw>)`))
		require.NoError(t, err)

		el := tree.Root.Child(0)
		var text *syntax.Node
		for _, c := range el.Children() {
			if c.Kind == syntax.KindText {
				text = c
			}
		}
		require.NotNil(t, text)
		assert.Equal(t, `a<raw>b</raw>c`, tree.Text(text))
	})

	t.Run("escaping directive triggers raw capture", func(t *testing.T) {
		t.Parallel()
		tree, err := syntax.ParseBlock([]byte(`(<pre @escaping="raw"><b>{x}</b></pre>)`))
		require.NoError(t, err)

		el := tree.Root.Child(0)
		var text *syntax.Node
		for _, c := range el.Children() {
			if c.Kind == syntax.KindText {
				text = c
			}
		}
		require.NotNil(t, text)
		assert.Equal(t, `<b>{x}</b>`, tree.Text(text))
	})
}

func TestStringLiteralValue(t *testing.T) {
	t.Parallel()

	content := []byte(`"hello"`)
	n := &syntax.Node{Type: "string_literal", Kind: syntax.KindStringLiteral, StartByte: 0, EndByte: 7}
	assert.Equal(t, "hello", syntax.StringLiteralValue(content, n))
	assert.Equal(t, "", syntax.StringLiteralValue(content, nil))
}

func TestTree_TextBoundsChecked(t *testing.T) {
	t.Parallel()

	tree, err := syntax.ParseBlock([]byte("(<div>x</div>)"))
	require.NoError(t, err)

	escaped := &syntax.Node{StartByte: 5, EndByte: 500}
	assert.Equal(t, "", tree.Text(escaped))
	assert.Equal(t, "", tree.TextRange(-1, 3))
	assert.Equal(t, "", tree.TextRange(9, 3))
}
