package format

import (
	"bytes"
	"strings"

	"github.com/yaklabco/gozx/pkg/syntax"
)

// renderer walks a syntax tree and writes canonical markup text.
type renderer struct {
	tree *syntax.Tree
	buf  bytes.Buffer
}

// Block formats one isolated template block into canonical form.
func Block(content []byte) (string, error) {
	tree, err := syntax.ParseBlock(content)
	if err != nil {
		return "", err
	}
	r := &renderer{tree: tree}
	r.renderBlock(tree.Root, &Context{})
	return r.buf.String(), nil
}

// renderBlockAt renders a parsed block with every line indented at the given
// level, used by the patch phase after the host formatter has settled the
// block's final position.
func renderBlockAt(tree *syntax.Tree, block *syntax.Node, indent int) string {
	r := &renderer{tree: tree}
	r.renderBlock(block, &Context{IndentLevel: indent})
	return r.buf.String()
}

func (r *renderer) newlineIndent(ctx *Context) {
	r.buf.WriteByte('\n')
	for range ctx.IndentLevel {
		r.buf.WriteString(indentUnit)
	}
	ctx.SuppressLeadingSpace = true
}

// renderBlock renders "(<markup>)". The parentheses keep the source layout
// decision: a newline between '(' and the markup makes the block vertical.
func (r *renderer) renderBlock(blk *syntax.Node, ctx *Context) {
	markup := blk.Child(0)
	if markup == nil {
		r.buf.WriteString(r.tree.Text(blk))
		return
	}

	saved := ctx.InBlock
	ctx.InBlock = true

	r.buf.WriteByte('(')
	if strings.Contains(r.tree.TextRange(blk.StartByte+1, markup.StartByte), "\n") {
		ctx.IndentLevel++
		r.newlineIndent(ctx)
		r.renderChild(markup, ctx)
		ctx.IndentLevel--
		r.newlineIndent(ctx)
	} else {
		r.renderChild(markup, ctx)
	}
	r.buf.WriteByte(')')

	ctx.InBlock = saved
}

// renderChild dispatches on node kind. Host nodes and anything unrecognized
// are copied verbatim so the formatter can never corrupt code it does not
// understand.
func (r *renderer) renderChild(n *syntax.Node, ctx *Context) {
	switch n.Kind {
	case syntax.KindElement:
		r.renderElement(n, ctx, false)
	case syntax.KindSelfClosingElement:
		r.renderElement(n, ctx, true)
	case syntax.KindFragment:
		r.renderFragment(n, ctx)
	case syntax.KindExpressionBlock:
		r.renderExpressionBlock(n, ctx)
	case syntax.KindText:
		r.renderText(n, ctx)
	default:
		r.buf.WriteString(r.tree.Text(n))
		ctx.SuppressLeadingSpace = false
	}
}

func (r *renderer) renderElement(el *syntax.Node, ctx *Context, selfClosing bool) {
	ctx.SuppressLeadingSpace = false

	st := el.ChildByFieldName("start_tag")
	r.renderStartTag(st, selfClosing)
	if selfClosing {
		return
	}

	var kids []*syntax.Node
	for _, c := range el.Children() {
		if c.Kind != syntax.KindStartTag && c.Kind != syntax.KindEndTag {
			kids = append(kids, c)
		}
	}
	r.renderContent(kids, st.EndByte, ctx)

	name := st.ChildByFieldName("name")
	r.buf.WriteString("</")
	r.buf.WriteString(r.tree.Text(name))
	r.buf.WriteByte('>')
}

func (r *renderer) renderFragment(f *syntax.Node, ctx *Context) {
	ctx.SuppressLeadingSpace = false
	r.buf.WriteString("<>")
	r.renderContent(f.Children(), f.StartByte+2, ctx)
	r.buf.WriteString("</>")
}

// renderContent lays out element content. Layout is vertical when the
// source whitespace between the open tag and the first meaningful child
// contains a newline; vertical children each get a fresh indented line, and
// at most one blank line from the source gap is preserved. Children whose
// separating gap has no newline stay on the current line, preserving
// intentional inline spacing.
func (r *renderer) renderContent(kids []*syntax.Node, openEnd int, ctx *Context) {
	var meaningful []*syntax.Node
	for _, c := range kids {
		if r.isMeaningful(c) {
			meaningful = append(meaningful, c)
		}
	}
	if len(meaningful) == 0 {
		return
	}

	if !strings.Contains(r.tree.TextRange(openEnd, r.effectiveStart(meaningful[0])), "\n") {
		for _, c := range meaningful {
			r.renderChild(c, ctx)
		}
		return
	}

	ctx.IndentLevel++
	prevEnd := openEnd
	for i, c := range meaningful {
		gap := r.tree.TextRange(prevEnd, r.effectiveStart(c))
		if i == 0 || strings.Contains(gap, "\n") {
			if strings.Count(gap, "\n") > 1 {
				r.buf.WriteByte('\n')
			}
			r.newlineIndent(ctx)
		}
		r.renderChild(c, ctx)
		prevEnd = r.effectiveEnd(c)
	}
	ctx.IndentLevel--
	r.newlineIndent(ctx)
}

// isMeaningful reports whether a child participates in layout: any non-text
// node, text with visible content, or a pure-space run (kept as intentional
// inline spacing). Whitespace runs containing a newline or tab are layout
// only and are dropped.
func (r *renderer) isMeaningful(n *syntax.Node) bool {
	if n.Kind != syntax.KindText {
		return true
	}
	s := r.tree.Text(n)
	if strings.TrimSpace(s) != "" {
		return true
	}
	if strings.ContainsAny(s, "\n\t") {
		return false
	}
	return s != ""
}

// effectiveStart returns the offset of the first visible byte of a node,
// skipping a text node's own leading whitespace.
func (r *renderer) effectiveStart(n *syntax.Node) int {
	if n.Kind != syntax.KindText {
		return n.StartByte
	}
	s := r.tree.Text(n)
	i := len(s) - len(strings.TrimLeft(s, " \t\n\r"))
	if i == len(s) {
		return n.StartByte
	}
	return n.StartByte + i
}

// effectiveEnd is the counterpart of effectiveStart for trailing whitespace.
func (r *renderer) effectiveEnd(n *syntax.Node) int {
	if n.Kind != syntax.KindText {
		return n.EndByte
	}
	s := r.tree.Text(n)
	i := len(strings.TrimRight(s, " \t\n\r"))
	if i == 0 {
		return n.EndByte
	}
	return n.StartByte + i
}

// renderText re-emits a text run: trimmed content with single leading and
// trailing spaces restored when the original whitespace there stayed on one
// line. Pure layout whitespace never reaches here in vertical mode.
func (r *renderer) renderText(n *syntax.Node, ctx *Context) {
	s := r.tree.Text(n)
	trimmed := strings.TrimSpace(s)

	if trimmed == "" {
		if strings.ContainsAny(s, "\n\t") || s == "" {
			return
		}
		if !ctx.SuppressLeadingSpace {
			r.buf.WriteByte(' ')
		}
		ctx.SuppressLeadingSpace = false
		return
	}

	lead := s[:len(s)-len(strings.TrimLeft(s, " \t\n\r"))]
	trail := s[len(strings.TrimRight(s, " \t\n\r")):]

	if lead != "" && !strings.Contains(lead, "\n") && !ctx.SuppressLeadingSpace {
		r.buf.WriteByte(' ')
	}
	r.buf.WriteString(trimmed)
	if trail != "" && !strings.Contains(trail, "\n") {
		r.buf.WriteByte(' ')
	}
	ctx.SuppressLeadingSpace = false
}

func (r *renderer) renderStartTag(st *syntax.Node, selfClosing bool) {
	name := st.ChildByFieldName("name")
	r.buf.WriteByte('<')
	r.buf.WriteString(r.tree.Text(name))
	for _, a := range st.Children() {
		if !a.Kind.IsAttribute() {
			continue
		}
		r.buf.WriteByte(' ')
		r.renderAttribute(a)
	}
	if selfClosing {
		r.buf.WriteString(" />")
	} else {
		r.buf.WriteByte('>')
	}
}

// renderAttribute normalizes attribute bodies to single spaces; shorthand,
// builtin-shorthand and spread forms are copied verbatim to preserve their
// notation exactly.
func (r *renderer) renderAttribute(a *syntax.Node) {
	switch a.Kind {
	case syntax.KindShorthandAttribute,
		syntax.KindBuiltinShorthandAttribute,
		syntax.KindSpreadAttribute:
		r.buf.WriteString(r.tree.Text(a))
		return
	}

	if a.Kind == syntax.KindBuiltinAttribute {
		r.buf.WriteByte('@')
	}
	r.buf.WriteString(r.tree.Text(a.ChildByFieldName("name")))

	v := a.ChildByFieldName("value")
	if v == nil {
		return
	}
	r.buf.WriteByte('=')
	if v.Kind == syntax.KindStringLiteral {
		r.buf.WriteString(r.tree.Text(v))
		return
	}
	expr := v.ChildByFieldName("expression")
	r.buf.WriteByte('{')
	r.buf.WriteString(normalizeExpr(r.tree.Text(expr)))
	r.buf.WriteByte('}')
}

func (r *renderer) renderExpressionBlock(n *syntax.Node, ctx *Context) {
	ctx.SuppressLeadingSpace = false

	r.buf.WriteByte('{')
	if cf := n.ChildByFieldName("control_flow"); cf != nil {
		r.renderControlFlow(cf, ctx)
	} else {
		r.buf.WriteString(normalizeExpr(r.tree.Text(n.ChildByFieldName("expression"))))
	}
	r.buf.WriteByte('}')
}

// normalizeExpr collapses whitespace runs in layout-insensitive expression
// text to single spaces, leaving string and character literals intact.
func normalizeExpr(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var inStr, inChar, esc, prevSpace bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr || inChar {
			b.WriteByte(c)
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case inStr && c == '"':
				inStr = false
			case inChar && c == '\'':
				inChar = false
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteByte(c)
		if c == '"' {
			inStr = true
		} else if c == '\'' {
			inChar = true
		}
	}
	return strings.TrimSpace(b.String())
}
