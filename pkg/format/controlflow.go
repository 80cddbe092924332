package format

import (
	"strings"

	"github.com/yaklabco/gozx/pkg/syntax"
)

// renderControlFlow renders an embedded control-flow expression in canonical
// form. The cursor sits just past the opening '{' of the expression block.
func (r *renderer) renderControlFlow(cf *syntax.Node, ctx *Context) {
	switch cf.Kind {
	case syntax.KindIf:
		r.renderIf(cf, ctx)
	case syntax.KindFor:
		r.renderFor(cf, ctx)
	case syntax.KindWhile:
		r.renderWhile(cf, ctx)
	case syntax.KindSwitch:
		r.renderSwitch(cf, ctx)
	default:
		r.buf.WriteString(r.tree.Text(cf))
	}
}

// branchesMultiline decides layout for a control-flow form: a newline
// between the condition's closing parenthesis (or the payload token) and the
// start of the body makes every branch of the form multiline.
func (r *renderer) branchesMultiline(after *syntax.Node, body *syntax.Node) bool {
	if after == nil || body == nil {
		return false
	}
	return strings.Contains(r.tree.TextRange(after.EndByte, body.StartByte), "\n")
}

func (r *renderer) renderIf(n *syntax.Node, ctx *Context) {
	cond := n.ChildByFieldName("condition")
	payload := n.ChildByFieldName("payload")
	consequence := n.ChildByFieldName("consequence")
	elsePayload := n.ChildByFieldName("else_payload")
	alternative := n.ChildByFieldName("alternative")

	after := cond
	if payload != nil {
		after = payload
	}
	multiline := r.branchesMultiline(after, consequence)

	r.buf.WriteString("if (")
	r.buf.WriteString(normalizeExpr(r.tree.Text(cond)))
	r.buf.WriteByte(')')
	r.renderPayload(payload)
	r.renderBranch(consequence, ctx, multiline)

	if alternative == nil {
		return
	}
	r.buf.WriteString(" else")
	r.renderPayload(elsePayload)
	if alternative.Kind == syntax.KindIf {
		// An else-if chain renders flat, without a redundant brace pair.
		r.buf.WriteByte(' ')
		r.renderIf(alternative, ctx)
		return
	}
	r.renderBranch(alternative, ctx, multiline)
}

func (r *renderer) renderFor(n *syntax.Node, ctx *Context) {
	iterable := n.ChildByFieldName("iterable")
	payload := n.ChildByFieldName("payload")
	body := n.ChildByFieldName("body")

	r.buf.WriteString("for (")
	r.buf.WriteString(normalizeExpr(r.tree.Text(iterable)))
	r.buf.WriteByte(')')
	r.renderPayload(payload)
	r.renderBranch(body, ctx, r.branchesMultiline(payload, body))
}

func (r *renderer) renderWhile(n *syntax.Node, ctx *Context) {
	cond := n.ChildByFieldName("condition")
	payload := n.ChildByFieldName("payload")
	step := n.ChildByFieldName("continue")
	body := n.ChildByFieldName("body")
	elsePayload := n.ChildByFieldName("else_payload")
	alternative := n.ChildByFieldName("else")

	after := cond
	if payload != nil {
		after = payload
	}
	if step != nil {
		after = step
	}
	multiline := r.branchesMultiline(after, body)

	r.buf.WriteString("while (")
	r.buf.WriteString(normalizeExpr(r.tree.Text(cond)))
	r.buf.WriteByte(')')
	r.renderPayload(payload)
	if step != nil {
		r.buf.WriteString(" : (")
		r.buf.WriteString(normalizeExpr(r.tree.Text(step)))
		r.buf.WriteByte(')')
	}
	r.renderBranch(body, ctx, multiline)

	if alternative == nil {
		return
	}
	r.buf.WriteString(" else")
	r.renderPayload(elsePayload)
	r.renderBranch(alternative, ctx, multiline)
}

// renderSwitch renders one case per line: "pattern => value,".
func (r *renderer) renderSwitch(n *syntax.Node, ctx *Context) {
	r.buf.WriteString("switch (")
	r.buf.WriteString(normalizeExpr(r.tree.Text(n.ChildByFieldName("condition"))))
	r.buf.WriteString(") {")

	ctx.IndentLevel++
	for _, c := range n.Children() {
		if c.Kind != syntax.KindSwitchCase {
			continue
		}
		r.newlineIndent(ctx)
		r.buf.WriteString(normalizeExpr(r.tree.Text(c.ChildByFieldName("pattern"))))
		r.buf.WriteString(" =>")
		r.renderCaseValue(c.ChildByFieldName("value"), ctx)
		r.buf.WriteByte(',')
	}
	ctx.IndentLevel--
	r.newlineIndent(ctx)
	r.buf.WriteByte('}')
}

// renderCaseValue uses the same dispatch as nested cases: a control-flow
// form renders bare, everything else re-parenthesized or copied verbatim.
func (r *renderer) renderCaseValue(v *syntax.Node, ctx *Context) {
	r.buf.WriteByte(' ')
	switch {
	case v == nil:
		return
	case v.Kind.IsControlFlow():
		r.renderControlFlow(v, ctx)
	case v.Kind == syntax.KindStringLiteral:
		r.buf.WriteString(r.tree.Text(v))
	case isMarkupKind(v.Kind):
		r.buf.WriteByte('(')
		r.renderChild(v, ctx)
		r.buf.WriteByte(')')
	default:
		r.buf.WriteByte('(')
		r.buf.WriteString(normalizeExpr(r.tree.Text(v)))
		r.buf.WriteByte(')')
	}
}

// renderBranch renders a control-flow branch body. Markup and expression
// branches are parenthesized; nested bare control flow is not.
func (r *renderer) renderBranch(branch *syntax.Node, ctx *Context, multiline bool) {
	if branch == nil {
		return
	}
	if branch.Kind.IsControlFlow() {
		r.buf.WriteByte(' ')
		r.renderControlFlow(branch, ctx)
		return
	}

	r.buf.WriteString(" (")
	if multiline {
		ctx.IndentLevel++
		r.newlineIndent(ctx)
		r.renderBranchValue(branch, ctx)
		ctx.IndentLevel--
		r.newlineIndent(ctx)
	} else {
		r.renderBranchValue(branch, ctx)
	}
	r.buf.WriteByte(')')
}

func (r *renderer) renderBranchValue(branch *syntax.Node, ctx *Context) {
	if isMarkupKind(branch.Kind) {
		r.renderChild(branch, ctx)
		return
	}
	r.buf.WriteString(normalizeExpr(r.tree.Text(branch)))
}

func (r *renderer) renderPayload(p *syntax.Node) {
	if p == nil {
		return
	}
	inner := strings.Trim(r.tree.Text(p), "|")
	r.buf.WriteString(" |")
	r.buf.WriteString(strings.TrimSpace(inner))
	r.buf.WriteByte('|')
}

func isMarkupKind(k syntax.NodeKind) bool {
	switch k {
	case syntax.KindElement, syntax.KindSelfClosingElement, syntax.KindFragment:
		return true
	default:
		return false
	}
}
