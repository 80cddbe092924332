// Package format implements the round-trip formatter for zx template blocks
// and the whole-file extraction/patch pipeline.
package format

// indentUnit is the canonical indentation step of the host language.
const indentUnit = "    "

// Context threads the formatter's layout state through the recursion.
//
// Fields are saved before mutation and restored after the recursive call
// returns, giving stack-scoped mutation without globals.
type Context struct {
	// IndentLevel is the current indentation depth in units of indentUnit.
	IndentLevel int

	// InBlock is true inside a template block's subtree. Outside a block
	// every node renders by verbatim byte-copy.
	InBlock bool

	// SuppressLeadingSpace drops the next would-be leading space, set at
	// the start of a freshly indented line.
	SuppressLeadingSpace bool
}
