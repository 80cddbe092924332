package transpile

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gozx/pkg/syntax"
)

// File transpiles a whole host file. Host code outside template blocks is
// copied verbatim with a mapping at each chunk start; every block is
// replaced by its lowered call expression.
func File(content []byte, opts Options) (*Result, error) {
	tree, err := syntax.ParseFile(content)
	if err != nil {
		return nil, err
	}

	c := newContext(tree, opts)
	for _, child := range tree.Root.Children() {
		if child.Kind == syntax.KindBlock {
			c.indent = sourceIndentAt(content, child.StartByte)
			c.lowerBlock(child)
			continue
		}
		c.writeMapped(tree.Text(child), child.StartByte)
	}
	return c.result(), nil
}

// Block transpiles one isolated template block.
func Block(content []byte, opts Options) (*Result, error) {
	tree, err := syntax.ParseBlock(content)
	if err != nil {
		return nil, err
	}

	c := newContext(tree, opts)
	c.lowerBlock(tree.Root)
	return c.result(), nil
}

// lowerBlock drops the block's parentheses and lowers the markup inside.
// The generated call expression takes the block's place in the host code.
func (c *Context) lowerBlock(blk *syntax.Node) {
	markup := blk.Child(0)
	if markup == nil {
		c.writeMapped(c.tree.Text(blk), blk.StartByte)
		return
	}
	c.lowerValue(markup)
}

// lowerValue writes the call expression for one child-position node.
func (c *Context) lowerValue(n *syntax.Node) {
	switch {
	case n.Kind == syntax.KindElement:
		c.lowerElement(n, false)
	case n.Kind == syntax.KindSelfClosingElement:
		c.lowerElement(n, true)
	case n.Kind == syntax.KindFragment:
		c.lowerFragment(n)
	case n.Kind == syntax.KindExpressionBlock:
		c.lowerExpressionBlock(n)
	case n.Kind == syntax.KindText:
		c.lowerText(n)
	case n.Kind == syntax.KindStringLiteral:
		c.writeMapped(`zx.text("`+EscapeString(syntax.StringLiteralValue(c.tree.Content, n))+`")`, n.StartByte)
	case n.Kind.IsControlFlow():
		c.lowerControlFlow(n)
	default:
		// Opaque host expression.
		c.writeMapped("zx.text("+flattenExpr(c.tree.Text(n))+")", n.StartByte)
	}
}

// ---------------------------------------------------------------------------
// Elements, fragments, components
// ---------------------------------------------------------------------------

func (c *Context) lowerElement(el *syntax.Node, selfClosing bool) {
	st := el.ChildByFieldName("start_tag")
	name := c.tree.Text(st.ChildByFieldName("name"))
	attrs := c.collectAttrs(st)

	if isCustomComponent(name) {
		c.lowerComponent(el, name, attrs, selfClosing)
		return
	}
	if name == "raw" {
		c.lowerRaw(el)
		return
	}

	c.writeMapped(`zx.element("`+name+`", .{`, el.StartByte)
	wrote := false
	opt := func() {
		if wrote {
			c.write(", ")
		} else {
			c.write(" ")
		}
		wrote = true
	}

	if attrs.allocator != nil {
		opt()
		c.write(".allocator = " + c.attrValueExpr(attrs.allocator))
	}
	if attrs.rendering != nil {
		opt()
		c.write(".rendering = " + c.renderingOptionExpr(attrs.rendering))
	}
	if attrs.spread != nil {
		opt()
		c.write(".spread = " + flattenExpr(c.tree.Text(attrs.spread)))
	}
	if len(attrs.regular) > 0 {
		opt()
		c.write(".attributes = &.{ ")
		for i, a := range attrs.regular {
			if i > 0 {
				c.write(", ")
			}
			c.write(`.{ .name = "` + a.name + `", .value = ` + c.attrValueExpr(a.value) + ` }`)
		}
		c.write(" }")
	}

	if !selfClosing {
		if c.rawEscaping(attrs) {
			opt()
			c.write(`.children = &.{ zx.raw("` + EscapeString(c.innerText(el)) + `") }`)
		} else if kids := c.meaningfulChildren(el); len(kids) > 0 {
			opt()
			c.write(".children = ")
			c.lowerChildren(kids)
		}
	}

	if wrote {
		c.write(" })")
	} else {
		c.write("})")
	}
}

func (c *Context) lowerFragment(f *syntax.Node) {
	kids := c.meaningfulChildren(f)
	if len(kids) == 0 {
		c.writeMapped("zx.fragment(.{})", f.StartByte)
		return
	}
	c.writeMapped("zx.fragment(.{ .children = ", f.StartByte)
	c.lowerChildren(kids)
	c.write(" })")
}

// lowerChildren emits the value assigned to a .children option. A sole
// for or while loop child lowers inline as a labeled block yielding the
// array directly, skipping one level of indirection; anything else gets
// the generic one-call-per-child list.
func (c *Context) lowerChildren(kids []*syntax.Node) {
	if len(kids) == 1 {
		if loop := soleLoop(kids[0]); loop != nil {
			c.lowerLoop(loop)
			return
		}
	}
	c.write("&.{ ")
	for i, k := range kids {
		if i > 0 {
			c.write(", ")
		}
		c.lowerValue(k)
	}
	c.write(" }")
}

// soleLoop returns the for or while expression carried by an expression
// block, or nil when the node is anything else.
func soleLoop(n *syntax.Node) *syntax.Node {
	if n.Kind != syntax.KindExpressionBlock {
		return nil
	}
	cf := n.ChildByFieldName("control_flow")
	if cf == nil {
		return nil
	}
	if cf.Kind == syntax.KindFor || cf.Kind == syntax.KindWhile {
		return cf
	}
	return nil
}

func (c *Context) lowerComponent(el *syntax.Node, name string, attrs elementAttrs, selfClosing bool) {
	if attrs.rendering != nil {
		rec := c.reg.Register(name, c.componentPath(attrs, name), c.renderingKind(attrs.rendering))
		c.writeMapped(`zx.clientComponent(.{ .name = "`+rec.Name+`", .path = "`+rec.Path+`", .id = "`+rec.ID+`" }, `, el.StartByte)
		c.writeProps(el, attrs, selfClosing)
		c.write(")")
		return
	}
	c.writeMapped("zx.component("+name+", ", el.StartByte)
	c.writeProps(el, attrs, selfClosing)
	c.write(")")
}

// writeProps emits the props struct shared by both component forms.
func (c *Context) writeProps(el *syntax.Node, attrs elementAttrs, selfClosing bool) {
	c.write(".{")
	wrote := false
	opt := func() {
		if wrote {
			c.write(", ")
		} else {
			c.write(" ")
		}
		wrote = true
	}

	for _, a := range attrs.regular {
		opt()
		c.write("." + a.name + " = " + c.attrValueExpr(a.value))
	}
	if attrs.spread != nil {
		opt()
		c.write(".spread = " + flattenExpr(c.tree.Text(attrs.spread)))
	}
	if !selfClosing {
		if kids := c.meaningfulChildren(el); len(kids) > 0 {
			opt()
			c.write(".children = ")
			c.lowerChildren(kids)
		}
	}

	if wrote {
		c.write(" }")
	} else {
		c.write("}")
	}
}

// lowerRaw emits the verbatim inner text of a raw element as an
// unescaped passthrough call. Only string-literal escaping applies; the
// content itself is never entity-escaped or re-parsed.
func (c *Context) lowerRaw(el *syntax.Node) {
	c.writeMapped(`zx.raw("`+EscapeString(c.innerText(el))+`")`, el.StartByte)
}

// innerText concatenates the element's text children verbatim.
func (c *Context) innerText(el *syntax.Node) string {
	var b strings.Builder
	for _, k := range el.Children() {
		if k.Kind == syntax.KindText {
			b.WriteString(c.tree.Text(k))
		}
	}
	return b.String()
}

// isCustomComponent reports whether a tag resolves to a host-scope
// callable rather than a generic element. Purely syntactic.
func isCustomComponent(tag string) bool {
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

// ---------------------------------------------------------------------------
// Text and expression children
// ---------------------------------------------------------------------------

func (c *Context) lowerText(n *syntax.Node) {
	c.writeMapped(`zx.text("`+EscapeString(textContent(c.tree.Text(n)))+`")`, n.StartByte)
}

// textContent normalizes a text run for lowering: trimmed content with
// single leading and trailing spaces restored when the surrounding
// whitespace stayed on one line. A pure-space run survives as one space.
func textContent(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return " "
	}

	lead := s[:len(s)-len(strings.TrimLeft(s, " \t\n\r"))]
	trail := s[len(strings.TrimRight(s, " \t\n\r")):]

	out := trimmed
	if lead != "" && !strings.Contains(lead, "\n") {
		out = " " + out
	}
	if trail != "" && !strings.Contains(trail, "\n") {
		out += " "
	}
	return out
}

// lowerExpressionBlock lowers a {..} child: structured control flow when
// the sub-parse succeeded, a format call when the expression carries a
// top-level format spec, a plain text-expression call otherwise. A
// malformed control-flow expression lands in the last bucket.
func (c *Context) lowerExpressionBlock(n *syntax.Node) {
	if cf := n.ChildByFieldName("control_flow"); cf != nil {
		c.lowerControlFlow(cf)
		return
	}

	expr := c.tree.Text(n.ChildByFieldName("expression"))
	if base, spec, ok := splitFormat(expr); ok {
		c.writeMapped(`zx.fmt("{`+spec+`}", .{`+base+`})`, n.StartByte)
		return
	}
	c.writeMapped("zx.text("+flattenExpr(expr)+")", n.StartByte)
}

// splitFormat splits "expr:spec" at the first top-level colon, outside
// brackets and literals. Both halves must be non-empty.
func splitFormat(expr string) (base, spec string, ok bool) {
	depth := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '"':
			i = skipQuoted(expr, i, '"')
		case '\'':
			i = skipQuoted(expr, i, '\'')
		case ':':
			if depth == 0 {
				base = strings.TrimSpace(expr[:i])
				spec = strings.TrimSpace(expr[i+1:])
				return base, spec, base != "" && spec != ""
			}
		}
	}
	return "", "", false
}

// skipQuoted returns the index of the closing quote, or the last index
// when the literal never closes.
func skipQuoted(s string, i int, quote byte) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}

// flattenExpr collapses whitespace runs in expression text to single
// spaces, leaving string and character literals intact, so a multiline
// source expression fits the generated single-line position.
func flattenExpr(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var inStr, inChar, esc, prevSpace bool
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inStr || inChar {
			b.WriteByte(ch)
			switch {
			case esc:
				esc = false
			case ch == '\\':
				esc = true
			case inStr && ch == '"':
				inStr = false
			case inChar && ch == '\'':
				inChar = false
			}
			continue
		}
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteByte(ch)
		if ch == '"' {
			inStr = true
		} else if ch == '\'' {
			inChar = true
		}
	}
	return strings.TrimSpace(b.String())
}

// ---------------------------------------------------------------------------
// Helpers shared with the layout walk
// ---------------------------------------------------------------------------

// meaningfulChildren filters an element or fragment's children down to
// the ones that produce output: everything except layout whitespace.
// A pure-space run is intentional inline spacing and is kept.
func (c *Context) meaningfulChildren(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, k := range n.Children() {
		if k.Kind == syntax.KindStartTag || k.Kind == syntax.KindEndTag {
			continue
		}
		if k.Kind == syntax.KindText {
			s := c.tree.Text(k)
			if strings.TrimSpace(s) == "" && (s == "" || strings.ContainsAny(s, "\n\t")) {
				continue
			}
		}
		out = append(out, k)
	}
	return out
}

// sourceIndentAt derives the generated-code indent level from the host
// source line holding the given offset.
func sourceIndentAt(b []byte, pos int) int {
	lineStart := pos
	for lineStart > 0 && b[lineStart-1] != '\n' {
		lineStart--
	}
	cols := 0
	for _, ch := range b[lineStart:pos] {
		switch ch {
		case ' ':
			cols++
		case '\t':
			cols += len(indentUnit)
		default:
			return cols / len(indentUnit)
		}
	}
	return cols / len(indentUnit)
}

// gensym names for one loop lowering.
type loopNames struct {
	blk string
	src string
	arr string
	len string
	idx string
}

func (c *Context) nextLoopNames() loopNames {
	i := c.nextBlockIndex()
	return loopNames{
		blk: fmt.Sprintf("blk%d", i),
		src: fmt.Sprintf("src%d", i),
		arr: fmt.Sprintf("arr%d", i),
		len: fmt.Sprintf("len%d", i),
		idx: fmt.Sprintf("i%d", i),
	}
}
