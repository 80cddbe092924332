// Package transpile lowers zx template blocks into host-language
// call-expression text that constructs a runtime component tree.
package transpile

import (
	"bytes"
	"strings"

	"github.com/yaklabco/gozx/pkg/registry"
	"github.com/yaklabco/gozx/pkg/sourcemap"
	"github.com/yaklabco/gozx/pkg/syntax"
)

// indentUnit is the indentation step of generated host code.
const indentUnit = "    "

// WhileCapacity is the fixed slot count allocated for while-loop lowering.
// The loop bound is not statically known, so generated code fills a
// fixed-size array and yields a slice truncated to the count written.
// Iterations past the capacity are not detected.
const WhileCapacity = 1024

const whileCapacityText = "1024"

// Options configures a transpile call.
type Options struct {
	// TrackMappings enables source-map recording.
	TrackMappings bool

	// ComponentDir is the directory prefix for synthesized client
	// component paths. Defaults to "components".
	ComponentDir string
}

func (o Options) componentDir() string {
	if o.ComponentDir == "" {
		return "components"
	}
	return o.ComponentDir
}

// Result carries everything that outlives the transpile call. All fields
// are independent copies; nothing references the syntax tree.
type Result struct {
	// Code is the generated host-language source.
	Code []byte

	// SourceMap is the finalized mapping table, nil unless requested.
	SourceMap *sourcemap.SourceMap

	// Components lists client component usages in generation order.
	Components []registry.ClientComponent
}

// Context threads the generator's output state through the recursion.
type Context struct {
	tree *syntax.Tree
	opts Options

	buf  bytes.Buffer
	line int
	col  int

	indent int

	smap *sourcemap.Builder
	reg  *registry.Registry

	// blockIndex numbers synthesized labels and variables so nested loop
	// lowerings never collide.
	blockIndex int
}

func newContext(tree *syntax.Tree, opts Options) *Context {
	return &Context{
		tree: tree,
		opts: opts,
		line: 1,
		col:  1,
		smap: sourcemap.NewBuilder(opts.TrackMappings),
		reg:  registry.New(),
	}
}

// write appends s to the output, scanning every byte for newlines to keep
// the (line, col) cursor current. Cursor tracking happens even when
// mappings are not recorded.
func (c *Context) write(s string) {
	c.buf.WriteString(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
	}
}

// writeMapped records a mapping from the current output position to the
// source offset, then writes s.
func (c *Context) writeMapped(s string, srcOffset int) {
	srcLine, srcCol := c.tree.PositionAt(srcOffset)
	c.smap.Add(c.line, c.col, srcLine, srcCol)
	c.write(s)
}

func (c *Context) newlineIndent() {
	c.write("\n")
	c.write(strings.Repeat(indentUnit, c.indent))
}

// nextBlockIndex returns a fresh gensym suffix for loop lowering.
func (c *Context) nextBlockIndex() int {
	i := c.blockIndex
	c.blockIndex++
	return i
}

func (c *Context) result() *Result {
	return &Result{
		Code:       append([]byte(nil), c.buf.Bytes()...),
		SourceMap:  c.smap.Finalize(),
		Components: c.reg.Components(),
	}
}
