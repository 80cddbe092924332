package transpile

import (
	"strings"

	"github.com/yaklabco/gozx/pkg/registry"
	"github.com/yaklabco/gozx/pkg/syntax"
)

// loweredAttr is one regular attribute headed for the emitted attribute
// list or props struct. A nil value marks a bare attribute.
type loweredAttr struct {
	name  string
	value *syntax.Node
}

// elementAttrs is a start tag's attribute set split by lowering role.
// Builtin directives are consumed here and never reach the regular list.
type elementAttrs struct {
	regular   []loweredAttr
	allocator *syntax.Node
	rendering *syntax.Node
	escaping  *syntax.Node
	path      *syntax.Node
	spread    *syntax.Node
}

// collectAttrs walks the start tag once and routes every attribute form.
// Shorthand forms desugar here: {name} becomes name={name}, @{name}
// becomes @name={name}. Only the first spread is kept.
func (c *Context) collectAttrs(st *syntax.Node) elementAttrs {
	var out elementAttrs

	for _, a := range st.Children() {
		switch a.Kind {
		case syntax.KindAttribute:
			out.regular = append(out.regular, loweredAttr{
				name:  c.tree.Text(a.ChildByFieldName("name")),
				value: a.ChildByFieldName("value"),
			})

		case syntax.KindBuiltinAttribute:
			out.routeBuiltin(c.tree.Text(a.ChildByFieldName("name")), a.ChildByFieldName("value"))

		case syntax.KindShorthandAttribute:
			expr := a.ChildByFieldName("expression")
			out.regular = append(out.regular, loweredAttr{
				name:  strings.TrimSpace(c.tree.Text(expr)),
				value: expr,
			})

		case syntax.KindBuiltinShorthandAttribute:
			expr := a.ChildByFieldName("expression")
			out.routeBuiltin(strings.TrimSpace(c.tree.Text(expr)), expr)

		case syntax.KindSpreadAttribute:
			if out.spread == nil {
				out.spread = a.ChildByFieldName("expression")
			}
		}
	}
	return out
}

// routeBuiltin assigns a builtin directive to its dedicated slot. Unknown
// builtin names are dropped; first assignment wins.
func (e *elementAttrs) routeBuiltin(name string, value *syntax.Node) {
	switch name {
	case "allocator":
		if e.allocator == nil {
			e.allocator = value
		}
	case "rendering":
		if e.rendering == nil {
			e.rendering = value
		}
	case "escaping":
		if e.escaping == nil {
			e.escaping = value
		}
	case "path":
		if e.path == nil {
			e.path = value
		}
	}
}

// rawEscaping reports whether the element carries @escaping="raw".
func (c *Context) rawEscaping(attrs elementAttrs) bool {
	v := attrs.escaping
	return v != nil && v.Kind == syntax.KindStringLiteral &&
		syntax.StringLiteralValue(c.tree.Content, v) == "raw"
}

// renderingKind maps a rendering directive value onto a registry kind.
// Only the literal ".native" selects native rendering; everything else,
// including dynamic expressions, defaults to client-side rendered.
func (c *Context) renderingKind(v *syntax.Node) registry.Kind {
	if v != nil && v.Kind == syntax.KindStringLiteral {
		val := strings.TrimPrefix(syntax.StringLiteralValue(c.tree.Content, v), ".")
		if val == string(registry.ClientSideNative) {
			return registry.ClientSideNative
		}
	}
	return registry.ClientSideRendered
}

// componentPath resolves the client component file path: an explicit
// @path directive wins, otherwise the conventional per-component default.
func (c *Context) componentPath(attrs elementAttrs, name string) string {
	if attrs.path != nil && attrs.path.Kind == syntax.KindStringLiteral {
		if p := syntax.StringLiteralValue(c.tree.Content, attrs.path); p != "" {
			return p
		}
	}
	return c.opts.componentDir() + "/" + name + ".zx"
}

// attrValueExpr lowers an attribute value to host expression text.
func (c *Context) attrValueExpr(v *syntax.Node) string {
	switch {
	case v == nil:
		return "true"
	case v.Kind == syntax.KindStringLiteral:
		return c.tree.Text(v)
	case v.Kind == syntax.KindExpressionBlock:
		expr := c.tree.Text(v.ChildByFieldName("expression"))
		if base, spec, ok := splitFormat(expr); ok {
			return `zx.fmt("{` + spec + `}", .{` + base + `})`
		}
		return flattenExpr(expr)
	default:
		return flattenExpr(c.tree.Text(v))
	}
}

// renderingOptionExpr lowers a rendering directive for a plain element's
// options struct. A string literal spelled as an enum tag passes through
// unquoted so the generated code names the enum member directly.
func (c *Context) renderingOptionExpr(v *syntax.Node) string {
	if v != nil && v.Kind == syntax.KindStringLiteral {
		if val := syntax.StringLiteralValue(c.tree.Content, v); strings.HasPrefix(val, ".") {
			return val
		}
	}
	return c.attrValueExpr(v)
}
