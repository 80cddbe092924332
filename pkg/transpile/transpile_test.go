package transpile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gozx/pkg/registry"
	"github.com/yaklabco/gozx/pkg/transpile"
)

func lowerBlock(t *testing.T, src string) string {
	t.Helper()
	res, err := transpile.Block([]byte(src), transpile.Options{})
	require.NoError(t, err)
	return string(res.Code)
}

func TestBlock_Elements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "element with attribute and text",
			input:    `(<div class="a">hi</div>)`,
			expected: `zx.element("div", .{ .attributes = &.{ .{ .name = "class", .value = "a" } }, .children = &.{ zx.text("hi") } })`,
		},
		{
			name:     "text expression child",
			input:    `(<p>{user.name}</p>)`,
			expected: `zx.element("p", .{ .children = &.{ zx.text(user.name) } })`,
		},
		{
			name:     "format expression child",
			input:    `(<span>{price:d}</span>)`,
			expected: `zx.element("span", .{ .children = &.{ zx.fmt("{d}", .{price}) } })`,
		},
		{
			name:     "self closing with dynamic attribute",
			input:    `(<img src={u} />)`,
			expected: `zx.element("img", .{ .attributes = &.{ .{ .name = "src", .value = u } } })`,
		},
		{
			name:     "bare attribute lowers to true",
			input:    `(<input disabled />)`,
			expected: `zx.element("input", .{ .attributes = &.{ .{ .name = "disabled", .value = true } } })`,
		},
		{
			name:     "shorthand attribute desugars",
			input:    `(<input {value} />)`,
			expected: `zx.element("input", .{ .attributes = &.{ .{ .name = "value", .value = value } } })`,
		},
		{
			name:     "spread attribute",
			input:    `(<div {..props} />)`,
			expected: `zx.element("div", .{ .spread = props })`,
		},
		{
			name:     "allocator directive leaves attribute list",
			input:    `(<div @allocator={alloc}>x</div>)`,
			expected: `zx.element("div", .{ .allocator = alloc, .children = &.{ zx.text("x") } })`,
		},
		{
			name:     "rendering directive becomes enum tag",
			input:    `(<div @rendering=".server">x</div>)`,
			expected: `zx.element("div", .{ .rendering = .server, .children = &.{ zx.text("x") } })`,
		},
		{
			name:     "empty element",
			input:    `(<div></div>)`,
			expected: `zx.element("div", .{})`,
		},
		{
			name:     "empty fragment",
			input:    `(<></>)`,
			expected: `zx.fragment(.{})`,
		},
		{
			name:     "fragment with mixed children",
			input:    `(<>a<b>c</b></>)`,
			expected: `zx.fragment(.{ .children = &.{ zx.text("a"), zx.element("b", .{ .children = &.{ zx.text("c") } }) } })`,
		},
		{
			name:     "layout whitespace dropped",
			input:    "(<p>\n    hello\n</p>)",
			expected: `zx.element("p", .{ .children = &.{ zx.text("hello") } })`,
		},
		{
			name:     "inline spacing survives",
			input:    `(<p> hello </p>)`,
			expected: `zx.element("p", .{ .children = &.{ zx.text(" hello ") } })`,
		},
		{
			name:     "quotes escaped in text",
			input:    `(<p>say "hi"</p>)`,
			expected: `zx.element("p", .{ .children = &.{ zx.text("say \"hi\"") } })`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, lowerBlock(t, tt.input))
		})
	}
}

func TestBlock_ControlFlow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "if without else gets empty fragment arm",
			input:    `(<div>{if (ok) (<b>y</b>)}</div>)`,
			expected: `zx.element("div", .{ .children = &.{ if (ok) zx.element("b", .{ .children = &.{ zx.text("y") } }) else zx.fragment(.{}) } })`,
		},
		{
			name:     "if else with payload",
			input:    `(<div>{if (user) |u| (<b>{u.name}</b>) else (<i>guest</i>)}</div>)`,
			expected: `zx.element("div", .{ .children = &.{ if (user) |u| zx.element("b", .{ .children = &.{ zx.text(u.name) } }) else zx.element("i", .{ .children = &.{ zx.text("guest") } }) } })`,
		},
		{
			name:     "else if chain stays flat",
			input:    `(<div>{if (a) (<b>1</b>) else if (c) (<i>2</i>) else (<u>3</u>)}</div>)`,
			expected: `zx.element("div", .{ .children = &.{ if (a) zx.element("b", .{ .children = &.{ zx.text("1") } }) else if (c) zx.element("i", .{ .children = &.{ zx.text("2") } }) else zx.element("u", .{ .children = &.{ zx.text("3") } }) } })`,
		},
		{
			name:  "switch arms one per line",
			input: `(<div>{switch (s) { 1 => "one", else => (<b>x</b>) }}</div>)`,
			expected: `zx.element("div", .{ .children = &.{ switch (s) {` + "\n" +
				`    1 => zx.text("one"),` + "\n" +
				`    else => zx.element("b", .{ .children = &.{ zx.text("x") } }),` + "\n" +
				`} } })`,
		},
		{
			name:     "malformed control flow falls back to text expression",
			input:    `(<div>{if (x) bare}</div>)`,
			expected: `zx.element("div", .{ .children = &.{ zx.text(if (x) bare) } })`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, lowerBlock(t, tt.input))
		})
	}
}

func TestBlock_SoleForLoopChild(t *testing.T) {
	t.Parallel()

	expected := `zx.element("ul", .{ .children = blk0: {` + "\n" +
		`    const src0 = items;` + "\n" +
		`    var arr0 = zx.alloc(zx.Node, src0.len);` + "\n" +
		`    for (src0, 0..) |it, i0| {` + "\n" +
		`        arr0[i0] = zx.element("li", .{ .children = &.{ zx.text(it) } });` + "\n" +
		`    }` + "\n" +
		`    break :blk0 arr0;` + "\n" +
		`} })`

	got := lowerBlock(t, `(<ul>{for (items) |it| (<li>{it}</li>)}</ul>)`)
	assert.Equal(t, expected, got)
}

func TestBlock_WhileLoopShape(t *testing.T) {
	t.Parallel()

	expected := `zx.element("ul", .{ .children = blk0: {` + "\n" +
		`    var arr0: [1024]zx.Node = undefined;` + "\n" +
		`    var len0: usize = 0;` + "\n" +
		`    while (it.next()) |v| {` + "\n" +
		`        arr0[len0] = zx.element("li", .{ .children = &.{ zx.text(v) } });` + "\n" +
		`        len0 += 1;` + "\n" +
		`    }` + "\n" +
		`    break :blk0 arr0[0..len0];` + "\n" +
		`} })`

	got := lowerBlock(t, `(<ul>{while (it.next()) |v| (<li>{v}</li>)}</ul>)`)
	assert.Equal(t, expected, got)
	assert.Equal(t, 1024, transpile.WhileCapacity)
}

func TestBlock_WhileWithStep(t *testing.T) {
	t.Parallel()

	got := lowerBlock(t, `(<ul>{while (i < n) : (i += 1) (<li>{i}</li>)}</ul>)`)
	assert.Contains(t, got, "while (i < n) : (i += 1) {")
}

func TestBlock_WhileWithElse(t *testing.T) {
	t.Parallel()

	expected := `zx.element("ul", .{ .children = blk0: {` + "\n" +
		`    var arr0: [1024]zx.Node = undefined;` + "\n" +
		`    var len0: usize = 0;` + "\n" +
		`    while (it.next()) |v| {` + "\n" +
		`        arr0[len0] = zx.element("li", .{ .children = &.{ zx.text(v) } });` + "\n" +
		`        len0 += 1;` + "\n" +
		`    } else {` + "\n" +
		`        arr0[len0] = zx.element("li", .{ .children = &.{ zx.text("done") } });` + "\n" +
		`        len0 += 1;` + "\n" +
		`    }` + "\n" +
		`    break :blk0 arr0[0..len0];` + "\n" +
		`} })`

	got := lowerBlock(t, `(<ul>{while (it.next()) |v| (<li>{v}</li>) else (<li>done</li>)}</ul>)`)
	assert.Equal(t, expected, got)

	withPayload := lowerBlock(t, `(<ul>{while (it.next()) |v| (<li>{v}</li>) else |e| (<li>{e}</li>)}</ul>)`)
	assert.Contains(t, withPayload, "} else |e| {")
}

func TestBlock_LoopNotSoleChildWrapsInFragment(t *testing.T) {
	t.Parallel()

	got := lowerBlock(t, `(<div>x{for (xs) |x| (<i>{x}</i>)}</div>)`)
	assert.Contains(t, got, `zx.text("x"), zx.fragment(.{ .children = blk0: {`)
}

func TestBlock_NestedLoopsDoNotCollide(t *testing.T) {
	t.Parallel()

	got := lowerBlock(t, `(<div>{for (a) |x| (<i>{for (b) |y| (<u>{y}</u>)}</i>)}</div>)`)
	assert.Contains(t, got, "blk0: {")
	assert.Contains(t, got, "blk1: {")
	assert.Contains(t, got, "const src1 = b;")
	assert.Contains(t, got, "arr1[i1] =")
}

func TestBlock_RawContent(t *testing.T) {
	t.Parallel()

	t.Run("raw tag", func(t *testing.T) {
		t.Parallel()
		got := lowerBlock(t, `(<raw><svg><path /></svg></raw>)`)
		assert.Equal(t, `zx.raw("<svg><path /></svg>")`, got)
	})

	t.Run("escaping directive", func(t *testing.T) {
		t.Parallel()
		got := lowerBlock(t, `(<pre @escaping="raw"><b>{x}</b></pre>)`)
		assert.Equal(t, `zx.element("pre", .{ .children = &.{ zx.raw("<b>{x}</b>") } })`, got)
	})
}

func TestBlock_Components(t *testing.T) {
	t.Parallel()

	t.Run("server component", func(t *testing.T) {
		t.Parallel()
		res, err := transpile.Block([]byte(`(<Card title="Hi">body</Card>)`), transpile.Options{})
		require.NoError(t, err)
		assert.Equal(t, `zx.component(Card, .{ .title = "Hi", .children = &.{ zx.text("body") } })`, string(res.Code))
		assert.Empty(t, res.Components)
	})

	t.Run("server component without props", func(t *testing.T) {
		t.Parallel()
		got := lowerBlock(t, `(<Spinner />)`)
		assert.Equal(t, `zx.component(Spinner, .{})`, got)
	})

	t.Run("client boundary", func(t *testing.T) {
		t.Parallel()
		res, err := transpile.Block([]byte(`(<Avatar @rendering=".csr" user={u} />)`), transpile.Options{})
		require.NoError(t, err)

		id := registry.ComponentID("Avatar", "components/Avatar.zx")
		want := `zx.clientComponent(.{ .name = "Avatar", .path = "components/Avatar.zx", .id = "` + id + `" }, .{ .user = u })`
		assert.Equal(t, want, string(res.Code))

		require.Len(t, res.Components, 1)
		assert.Equal(t, registry.ClientSideRendered, res.Components[0].Kind)
		assert.Equal(t, "Avatar", res.Components[0].Name)
		assert.Equal(t, id, res.Components[0].ID)
	})

	t.Run("native kind with path override", func(t *testing.T) {
		t.Parallel()
		res, err := transpile.Block([]byte(`(<Chart @rendering=".native" @path="widgets/Chart.zx" data={d} />)`), transpile.Options{})
		require.NoError(t, err)

		require.Len(t, res.Components, 1)
		assert.Equal(t, registry.ClientSideNative, res.Components[0].Kind)
		assert.Equal(t, "widgets/Chart.zx", res.Components[0].Path)
	})

	t.Run("repeated usages are not deduplicated", func(t *testing.T) {
		t.Parallel()
		res, err := transpile.Block([]byte(`(<><Avatar @rendering=".csr" /><Avatar @rendering=".csr" /></>)`), transpile.Options{})
		require.NoError(t, err)

		require.Len(t, res.Components, 2)
		assert.Equal(t, res.Components[0].ID, res.Components[1].ID)
	})

	t.Run("component dir option", func(t *testing.T) {
		t.Parallel()
		res, err := transpile.Block([]byte(`(<Avatar @rendering=".csr" />)`), transpile.Options{ComponentDir: "src/widgets"})
		require.NoError(t, err)

		require.Len(t, res.Components, 1)
		assert.Equal(t, "src/widgets/Avatar.zx", res.Components[0].Path)
	})
}

func TestFile_HostCodePreserved(t *testing.T) {
	t.Parallel()

	src := "const std = @import(\"std\");\n\nfn page() zx.Node {\n    return (<div>x</div>);\n}\n"
	res, err := transpile.File([]byte(src), transpile.Options{})
	require.NoError(t, err)

	want := "const std = @import(\"std\");\n\nfn page() zx.Node {\n    return zx.element(\"div\", .{ .children = &.{ zx.text(\"x\") } });\n}\n"
	assert.Equal(t, want, string(res.Code))
}

func TestFile_LoopIndentFollowsHostLine(t *testing.T) {
	t.Parallel()

	src := "fn page() zx.Node {\n    return (<ul>{for (items) |it| (<li>{it}</li>)}</ul>);\n}\n"
	res, err := transpile.File([]byte(src), transpile.Options{})
	require.NoError(t, err)

	// The block opens at one indent level, so the loop body sits at two.
	assert.Contains(t, string(res.Code), "\n        const src0 = items;")
	assert.Contains(t, string(res.Code), "\n    } })")
}

func TestFile_SourceMap(t *testing.T) {
	t.Parallel()

	src := "const a = 1;\nconst r = (<div>x</div>);\n"

	t.Run("disabled yields nil map", func(t *testing.T) {
		t.Parallel()
		res, err := transpile.File([]byte(src), transpile.Options{})
		require.NoError(t, err)
		assert.Nil(t, res.SourceMap)
	})

	t.Run("enabled records chunk and block starts", func(t *testing.T) {
		t.Parallel()
		res, err := transpile.File([]byte(src), transpile.Options{TrackMappings: true})
		require.NoError(t, err)
		require.NotNil(t, res.SourceMap)
		require.NotEmpty(t, res.SourceMap.Mappings)

		first := res.SourceMap.Mappings[0]
		assert.Equal(t, 1, first.GenLine)
		assert.Equal(t, 1, first.GenCol)
		assert.Equal(t, 1, first.SrcLine)
		assert.Equal(t, 1, first.SrcCol)

		// The element on source line 2 maps from the generated call site.
		var found bool
		for _, m := range res.SourceMap.Mappings {
			if m.SrcLine == 2 && m.SrcCol == 12 {
				found = true
				assert.Equal(t, 2, m.GenLine)
				assert.Equal(t, 11, m.GenCol)
			}
		}
		assert.True(t, found, "expected a mapping for the element start")
	})
}

func TestFile_ParseErrorIsFatal(t *testing.T) {
	t.Parallel()

	_, err := transpile.File([]byte("const r = (<div>x</span>);\n"), transpile.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched closing tag")
}

func TestEscapeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\nb\tc\\d\"e\r`, transpile.EscapeString("a\nb\tc\\d\"e\r"))
}
