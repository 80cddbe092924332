package syntax

import "fmt"

// ParseError reports a fatal failure to parse input.
//
// Parse errors abort the whole format or transpile call; recoverable
// conditions (malformed embedded control flow) never surface as ParseError,
// they degrade to opaque expression nodes instead.
type ParseError struct {
	// Path is the originating file, when known.
	Path string

	// Offset is the byte offset of the failure.
	Offset int

	// Line and Column are 1-based positions derived from Offset.
	Line   int
	Column int

	// Msg describes what was expected.
	Msg string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}
