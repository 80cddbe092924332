package transpile

import (
	"strings"

	"github.com/yaklabco/gozx/pkg/syntax"
)

// lowerControlFlow writes the expression form of one embedded
// control-flow node. Loops in plain child position wrap in a fragment;
// the sole-loop-child fast path bypasses this via lowerChildren.
func (c *Context) lowerControlFlow(cf *syntax.Node) {
	switch cf.Kind {
	case syntax.KindIf:
		c.lowerIf(cf)
	case syntax.KindSwitch:
		c.lowerSwitch(cf)
	case syntax.KindFor, syntax.KindWhile:
		c.writeMapped("zx.fragment(.{ .children = ", cf.StartByte)
		c.lowerLoop(cf)
		c.write(" })")
	default:
		c.writeMapped("zx.text("+flattenExpr(c.tree.Text(cf))+")", cf.StartByte)
	}
}

// lowerIf emits a host conditional expression. The else arm is always
// present: a missing alternative yields an empty fragment so the
// expression has a value on both paths.
func (c *Context) lowerIf(n *syntax.Node) {
	c.writeMapped("if (", n.StartByte)
	c.write(flattenExpr(c.tree.Text(n.ChildByFieldName("condition"))))
	c.write(")")
	c.writePayload(n.ChildByFieldName("payload"))
	c.write(" ")
	c.lowerBranch(n.ChildByFieldName("consequence"))

	c.write(" else")
	c.writePayload(n.ChildByFieldName("else_payload"))
	c.write(" ")
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		c.lowerBranch(alt)
	} else {
		c.write("zx.fragment(.{})")
	}
}

// lowerSwitch emits a host switch expression, one arm per line.
func (c *Context) lowerSwitch(n *syntax.Node) {
	c.writeMapped("switch (", n.StartByte)
	c.write(flattenExpr(c.tree.Text(n.ChildByFieldName("condition"))))
	c.write(") {")

	c.indent++
	for _, k := range n.Children() {
		if k.Kind != syntax.KindSwitchCase {
			continue
		}
		c.newlineIndent()
		c.write(flattenExpr(c.tree.Text(k.ChildByFieldName("pattern"))))
		c.write(" => ")
		c.lowerBranch(k.ChildByFieldName("value"))
		c.write(",")
	}
	c.indent--
	c.newlineIndent()
	c.write("}")
}

// lowerBranch lowers a control-flow branch or switch arm value. Nested
// control flow stays bare; everything else goes through the common
// child-value dispatch.
func (c *Context) lowerBranch(b *syntax.Node) {
	if b == nil {
		c.write("zx.fragment(.{})")
		return
	}
	if b.Kind.IsControlFlow() {
		c.lowerControlFlow(b)
		return
	}
	c.lowerValue(b)
}

func (c *Context) lowerLoop(cf *syntax.Node) {
	if cf.Kind == syntax.KindWhile {
		c.lowerWhile(cf)
		return
	}
	c.lowerFor(cf)
}

// lowerFor synthesizes a labeled block that pre-sizes an array to the
// iterable's length, fills one slot per iteration, and yields the array.
func (c *Context) lowerFor(n *syntax.Node) {
	names := c.nextLoopNames()
	iterable := flattenExpr(c.tree.Text(n.ChildByFieldName("iterable")))
	payload := c.payloadText(n.ChildByFieldName("payload"))

	c.writeMapped(names.blk+": {", n.StartByte)
	c.indent++
	c.newlineIndent()
	c.write("const " + names.src + " = " + iterable + ";")
	c.newlineIndent()
	c.write("var " + names.arr + " = zx.alloc(zx.Node, " + names.src + ".len);")
	c.newlineIndent()
	c.write("for (" + names.src + ", 0..) |" + payload + ", " + names.idx + "| {")
	c.indent++
	c.newlineIndent()
	c.write(names.arr + "[" + names.idx + "] = ")
	c.lowerBranch(n.ChildByFieldName("body"))
	c.write(";")
	c.indent--
	c.newlineIndent()
	c.write("}")
	c.newlineIndent()
	c.write("break :" + names.blk + " " + names.arr + ";")
	c.indent--
	c.newlineIndent()
	c.write("}")
}

// lowerWhile synthesizes a labeled block over a fixed-capacity array.
// The loop bound is not statically known, so the block fills up to
// WhileCapacity slots, counts writes, and yields the filled prefix.
// Iterations past the capacity index out of bounds. An else arm carries
// over as the loop's else clause and appends one more node on normal
// exit.
func (c *Context) lowerWhile(n *syntax.Node) {
	names := c.nextLoopNames()
	cond := flattenExpr(c.tree.Text(n.ChildByFieldName("condition")))

	c.writeMapped(names.blk+": {", n.StartByte)
	c.indent++
	c.newlineIndent()
	c.write("var " + names.arr + ": [" + whileCapacityText + "]zx.Node = undefined;")
	c.newlineIndent()
	c.write("var " + names.len + ": usize = 0;")
	c.newlineIndent()
	c.write("while (" + cond + ")")
	c.writePayload(n.ChildByFieldName("payload"))
	if step := n.ChildByFieldName("continue"); step != nil {
		c.write(" : (" + flattenExpr(c.tree.Text(step)) + ")")
	}
	c.write(" {")
	c.indent++
	c.newlineIndent()
	c.write(names.arr + "[" + names.len + "] = ")
	c.lowerBranch(n.ChildByFieldName("body"))
	c.write(";")
	c.newlineIndent()
	c.write(names.len + " += 1;")
	c.indent--
	c.newlineIndent()
	c.write("}")
	if alt := n.ChildByFieldName("else"); alt != nil {
		c.write(" else")
		c.writePayload(n.ChildByFieldName("else_payload"))
		c.write(" {")
		c.indent++
		c.newlineIndent()
		c.write(names.arr + "[" + names.len + "] = ")
		c.lowerBranch(alt)
		c.write(";")
		c.newlineIndent()
		c.write(names.len + " += 1;")
		c.indent--
		c.newlineIndent()
		c.write("}")
	}
	c.newlineIndent()
	c.write("break :" + names.blk + " " + names.arr + "[0.." + names.len + "];")
	c.indent--
	c.newlineIndent()
	c.write("}")
}

func (c *Context) payloadText(p *syntax.Node) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(c.tree.Text(p), "|"))
}

func (c *Context) writePayload(p *syntax.Node) {
	if p == nil {
		return
	}
	c.write(" |" + c.payloadText(p) + "|")
}
