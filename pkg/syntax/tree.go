package syntax

// Tree is a parsed concrete syntax tree plus the source buffer it indexes.
//
// The tree is owned by one top-level operation (one format or one transpile
// call). Anything that must outlive the call, such as generated text or
// registry entries, is copied out before the tree is discarded; nothing
// retains Node pointers across calls.
type Tree struct {
	// Content is the source buffer. Never mutated after parse.
	Content []byte

	// Root is the root node: a source_file for whole files, a
	// template_block for isolated blocks.
	Root *Node

	lines []LineInfo
}

// Text returns the source slice for a node as a string.
// A node whose range escapes the buffer yields the empty string rather than
// panicking; the renderers rely on that defensive bound throughout.
func (t *Tree) Text(n *Node) string {
	if n == nil {
		return ""
	}
	if n.StartByte < 0 || n.EndByte > len(t.Content) || n.StartByte > n.EndByte {
		return ""
	}
	return string(t.Content[n.StartByte:n.EndByte])
}

// TextRange returns the source slice for an arbitrary byte range, with the
// same defensive bounds as Text.
func (t *Tree) TextRange(start, end int) string {
	if start < 0 || end > len(t.Content) || start > end {
		return ""
	}
	return string(t.Content[start:end])
}

// ParseFile parses a whole host-language file that may contain zero or more
// template blocks. Host code outside blocks is preserved as opaque
// host_chunk nodes.
func ParseFile(content []byte) (*Tree, error) {
	p := &parser{content: content}
	root, err := p.parseSourceFile()
	if err != nil {
		return nil, attachPosition(err, content)
	}
	return &Tree{Content: content, Root: root, lines: BuildLines(content)}, nil
}

// ParseBlock parses one isolated template block: a parenthesized markup
// expression, optionally surrounded by whitespace.
func ParseBlock(content []byte) (*Tree, error) {
	p := &parser{content: content}
	p.skipSpace()
	if p.peek() != '(' {
		return nil, p.errorf("expected '(' to open a template block")
	}
	root, err := p.parseBlock()
	if err != nil {
		return nil, attachPosition(err, content)
	}
	p.skipSpace()
	if !p.atEnd() {
		return nil, attachPosition(p.errorf("unexpected trailing content after template block"), content)
	}
	return &Tree{Content: content, Root: root, lines: BuildLines(content)}, nil
}

// attachPosition fills in line/column on a ParseError from its byte offset.
func attachPosition(err error, content []byte) error {
	pe, ok := err.(*ParseError)
	if !ok {
		return err
	}
	t := &Tree{Content: content, lines: BuildLines(content)}
	pe.Line, pe.Column = t.PositionAt(pe.Offset)
	return pe
}
