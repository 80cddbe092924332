package syntax

import "fmt"

// parser is a recursive-descent parser over a byte buffer.
//
// Whole files are parsed in two layers: host code is scanned opaquely
// (tracking strings, character literals, and line comments) until a
// template block opens, and only block interiors are parsed as markup.
// Sub-parsers over restricted spans (limit > 0) parse embedded control flow.
type parser struct {
	content []byte
	pos     int

	// limit restricts parsing to content[:limit]; zero means the whole
	// buffer. Used by control-flow sub-parsers over expression spans.
	limit int
}

func (p *parser) end() int {
	if p.limit > 0 {
		return p.limit
	}
	return len(p.content)
}

func (p *parser) atEnd() bool {
	return p.pos >= p.end()
}

// peek returns the current byte, or 0 at end of input.
func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.content[p.pos]
}

// peekAt returns the byte at pos+i, or 0 when out of range.
func (p *parser) peekAt(i int) byte {
	if p.pos+i >= p.end() {
		return 0
	}
	return p.content[p.pos+i]
}

func (p *parser) skipSpace() {
	for !p.atEnd() && isSpace(p.content[p.pos]) {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isIdentStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || b >= '0' && b <= '9'
}

func isTagNameByte(b byte) bool {
	return isIdentByte(b) || b == '-' || b == '.'
}

// ---------------------------------------------------------------------------
// File layer
// ---------------------------------------------------------------------------

// parseSourceFile scans host code, emitting host_chunk nodes for spans
// between template blocks and parsing each block as markup.
func (p *parser) parseSourceFile() (*Node, error) {
	root := newNode("source_file", 0, len(p.content))
	hostStart := p.pos

	for !p.atEnd() {
		switch p.peek() {
		case '"':
			p.skipStringLiteral()
		case '\'':
			p.skipCharLiteral()
		case '/':
			if p.peekAt(1) == '/' {
				p.skipLineComment()
			} else {
				p.pos++
			}
		case '(':
			if !p.blockAhead() {
				p.pos++
				continue
			}
			if p.pos > hostStart {
				root.addChild(newNode("host_chunk", hostStart, p.pos))
			}
			blk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			root.addChild(blk)
			hostStart = p.pos
		default:
			p.pos++
		}
	}

	if p.pos > hostStart {
		root.addChild(newNode("host_chunk", hostStart, p.pos))
	}
	return root, nil
}

// blockAhead reports whether the '(' at the cursor opens a template block:
// its first non-whitespace byte is '<' followed by a tag start or '>'.
func (p *parser) blockAhead() bool {
	i := p.pos + 1
	for i < p.end() && isSpace(p.content[i]) {
		i++
	}
	if i >= p.end() || p.content[i] != '<' {
		return false
	}
	if i+1 >= p.end() {
		return false
	}
	next := p.content[i+1]
	return isIdentStart(next) || next == '>'
}

// skipStringLiteral advances past a double-quoted literal, honoring
// backslash escapes, and reports whether the closing quote was seen.
// An unterminated literal consumes to end of line or input.
func (p *parser) skipStringLiteral() bool {
	p.pos++ // opening quote
	for !p.atEnd() {
		switch p.peek() {
		case '\\':
			// A trailing escape at end of input leaves the literal
			// unterminated; never step past the buffer.
			p.pos += 2
			if p.pos > p.end() {
				p.pos = p.end()
			}
		case '"':
			p.pos++
			return true
		case '\n':
			// Host string literals do not span lines; treat as unterminated.
			return false
		default:
			p.pos++
		}
	}
	return false
}

// skipCharLiteral advances past a single-quoted literal when one closes on
// the same line; otherwise the quote is treated as a plain byte.
func (p *parser) skipCharLiteral() {
	i := p.pos + 1
	for i < p.end() && p.content[i] != '\n' {
		if p.content[i] == '\\' {
			i += 2
			continue
		}
		if p.content[i] == '\'' {
			p.pos = i + 1
			return
		}
		i++
	}
	p.pos++
}

func (p *parser) skipLineComment() {
	for !p.atEnd() && p.peek() != '\n' {
		p.pos++
	}
}

// ---------------------------------------------------------------------------
// Block and markup layer
// ---------------------------------------------------------------------------

// parseBlock parses a parenthesized markup expression. The cursor must sit
// on the opening '('.
func (p *parser) parseBlock() (*Node, error) {
	start := p.pos
	p.pos++ // '('
	p.skipSpace()

	if p.peek() != '<' {
		return nil, p.errorf("expected markup after '(' in template block")
	}
	markup, err := p.parseMarkup()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.peek() != ')' {
		return nil, p.errorf("expected ')' to close template block")
	}
	p.pos++

	blk := newNode("template_block", start, p.pos)
	blk.addChild(markup)
	return blk, nil
}

// parseMarkup parses an element or fragment. The cursor must sit on '<'.
func (p *parser) parseMarkup() (*Node, error) {
	if p.peekAt(1) == '>' {
		return p.parseFragment()
	}
	return p.parseElement()
}

func (p *parser) parseFragment() (*Node, error) {
	start := p.pos
	p.pos += 2 // "<>"

	children, err := p.parseChildren()
	if err != nil {
		return nil, err
	}

	if !(p.peek() == '<' && p.peekAt(1) == '/' && p.peekAt(2) == '>') {
		return nil, p.errorf("expected '</>' to close fragment")
	}
	p.pos += 3

	frag := newNode("fragment", start, p.pos)
	for _, c := range children {
		frag.addChild(c)
	}
	return frag, nil
}

func (p *parser) parseElement() (*Node, error) {
	start := p.pos

	startTag, tag, selfClosing, err := p.parseStartTag()
	if err != nil {
		return nil, err
	}

	if selfClosing {
		el := newNode("self_closing_element", start, p.pos)
		el.addChild(startTag)
		el.setField("start_tag", startTag)
		return el, nil
	}

	var children []*Node
	if tag == "raw" || hasRawEscaping(p.content, startTag) {
		raw, rawErr := p.captureRawContent(tag)
		if rawErr != nil {
			return nil, rawErr
		}
		if raw != nil {
			children = append(children, raw)
		}
	} else {
		children, err = p.parseChildren()
		if err != nil {
			return nil, err
		}
	}

	endTag, err := p.parseEndTag(tag)
	if err != nil {
		return nil, err
	}

	el := newNode("element", start, p.pos)
	el.addChild(startTag)
	el.setField("start_tag", startTag)
	for _, c := range children {
		el.addChild(c)
	}
	el.addChild(endTag)
	el.setField("end_tag", endTag)
	return el, nil
}

// parseStartTag parses "<tag attr...>" or "<tag attr.../>".
// Returns the start_tag node, the tag name, and the self-closing flag.
func (p *parser) parseStartTag() (*Node, string, bool, error) {
	start := p.pos
	p.pos++ // '<'

	nameStart := p.pos
	if !isIdentStart(p.peek()) {
		return nil, "", false, p.errorf("expected tag name after '<'")
	}
	for isTagNameByte(p.peek()) {
		p.pos++
	}
	tagName := newNode("tag_name", nameStart, p.pos)
	tag := string(p.content[nameStart:p.pos])

	st := &Node{Type: "start_tag", Kind: KindStartTag, StartByte: start}
	st.addChild(tagName)
	st.setField("name", tagName)

	for {
		p.skipSpace()
		switch {
		case p.atEnd():
			return nil, "", false, p.errorf("unterminated start tag <%s", tag)
		case p.peek() == '>':
			p.pos++
			st.EndByte = p.pos
			return st, tag, false, nil
		case p.peek() == '/' && p.peekAt(1) == '>':
			p.pos += 2
			st.EndByte = p.pos
			return st, tag, true, nil
		default:
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, "", false, err
			}
			st.addChild(attr)
		}
	}
}

// parseAttribute parses one attribute in any of the five forms:
// name="v", name={expr}, @name=..., {short}, @{short}, {..spread}.
func (p *parser) parseAttribute() (*Node, error) {
	start := p.pos

	switch {
	case p.peek() == '@' && p.peekAt(1) == '{':
		p.pos++
		end, err := p.scanBalanced('{', '}')
		if err != nil {
			return nil, err
		}
		p.pos = end
		n := newNode("builtin_shorthand_attribute", start, end)
		n.setField("expression", newNode("expression", start+2, end-1))
		return n, nil

	case p.peek() == '{':
		end, err := p.scanBalanced('{', '}')
		if err != nil {
			return nil, err
		}
		p.pos = end
		typeName := "shorthand_attribute"
		exprStart := start + 1
		if end-start > 3 && p.content[start+1] == '.' && p.content[start+2] == '.' {
			typeName = "spread_attribute"
			exprStart = start + 3
		}
		n := newNode(typeName, start, end)
		n.setField("expression", newNode("expression", exprStart, end-1))
		return n, nil

	case p.peek() == '@' || isIdentStart(p.peek()):
		typeName := "attribute"
		if p.peek() == '@' {
			typeName = "builtin_attribute"
			p.pos++
		}
		nameStart := p.pos
		if !isIdentStart(p.peek()) {
			return nil, p.errorf("expected attribute name")
		}
		for isIdentByte(p.peek()) || p.peek() == '-' {
			p.pos++
		}
		name := newNode("attribute_name", nameStart, p.pos)

		n := &Node{Type: typeName, Kind: KindOf(typeName), StartByte: start}
		n.setField("name", name)

		// Bare attributes have no value.
		mark := p.pos
		p.skipSpace()
		if p.peek() != '=' {
			p.pos = mark
			n.EndByte = p.pos
			return n, nil
		}
		p.pos++ // '='
		p.skipSpace()

		value, err := p.parseAttributeValue()
		if err != nil {
			return nil, err
		}
		n.setField("value", value)
		n.EndByte = p.pos
		return n, nil
	}

	return nil, p.errorf("unexpected byte %q in start tag", p.peek())
}

func (p *parser) parseAttributeValue() (*Node, error) {
	switch p.peek() {
	case '"':
		start := p.pos
		if !p.skipStringLiteral() {
			return nil, &ParseError{Offset: start, Msg: "unterminated attribute string"}
		}
		return newNode("string_literal", start, p.pos), nil
	case '{':
		return p.parseExpressionBlock()
	}
	return nil, p.errorf("expected string or expression attribute value")
}

// parseEndTag parses "</tag>" and verifies the name matches.
func (p *parser) parseEndTag(tag string) (*Node, error) {
	start := p.pos
	if !(p.peek() == '<' && p.peekAt(1) == '/') {
		return nil, p.errorf("expected closing tag </%s>", tag)
	}
	p.pos += 2
	nameStart := p.pos
	for isTagNameByte(p.peek()) {
		p.pos++
	}
	if got := string(p.content[nameStart:p.pos]); got != tag {
		return nil, &ParseError{
			Offset: nameStart,
			Msg:    fmt.Sprintf("mismatched closing tag </%s>, expected </%s>", got, tag),
		}
	}
	if p.peek() != '>' {
		return nil, p.errorf("expected '>' in closing tag")
	}
	p.pos++

	et := newNode("end_tag", start, p.pos)
	et.setField("name", newNode("tag_name", nameStart, p.pos-1))
	return et, nil
}

// parseChildren parses element content until a closing tag ("</") is seen.
func (p *parser) parseChildren() ([]*Node, error) {
	var children []*Node

	for {
		if p.atEnd() {
			return nil, p.errorf("unterminated element content")
		}
		switch {
		case p.peek() == '<' && p.peekAt(1) == '/':
			return children, nil
		case p.peek() == '<':
			child, err := p.parseMarkup()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		case p.peek() == '{':
			child, err := p.parseExpressionBlock()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		default:
			children = append(children, p.parseText())
		}
	}
}

// parseText consumes a text run up to the next markup delimiter.
func (p *parser) parseText() *Node {
	start := p.pos
	for !p.atEnd() && p.peek() != '<' && p.peek() != '{' {
		p.pos++
	}
	return newNode("text", start, p.pos)
}

// captureRawContent captures everything up to the matching closing tag as a
// single verbatim text node, balancing nested same-name open tags so raw
// regions can embed markup-looking content.
func (p *parser) captureRawContent(tag string) (*Node, error) {
	start := p.pos
	open := "<" + tag
	close := "</" + tag

	depth := 1
	i := p.pos
	for i < p.end() {
		if p.content[i] != '<' {
			i++
			continue
		}
		if matchAt(p.content, i, close) && isTagBoundary(p.content, i+len(close), p.end()) {
			depth--
			if depth == 0 {
				p.pos = i
				if i == start {
					return nil, nil
				}
				return newNode("text", start, i), nil
			}
			i += len(close)
			continue
		}
		if matchAt(p.content, i, open) && isTagBoundary(p.content, i+len(open), p.end()) {
			depth++
			i += len(open)
			continue
		}
		i++
	}
	return nil, &ParseError{Offset: start, Msg: fmt.Sprintf("unterminated raw content, expected </%s>", tag)}
}

func matchAt(content []byte, i int, s string) bool {
	if i+len(s) > len(content) {
		return false
	}
	return string(content[i:i+len(s)]) == s
}

// isTagBoundary reports whether the byte at i terminates a tag name.
func isTagBoundary(content []byte, i, limit int) bool {
	if i >= limit {
		return true
	}
	return !isTagNameByte(content[i])
}

// ---------------------------------------------------------------------------
// Expression blocks and embedded control flow
// ---------------------------------------------------------------------------

// parseExpressionBlock parses "{...}". When the inner expression opens with
// a control-flow keyword, its sub-grammar is parsed into a structured child;
// when that sub-parse fails, the block degrades to an opaque expression
// rather than failing the whole parse.
func (p *parser) parseExpressionBlock() (*Node, error) {
	start := p.pos
	end, err := p.scanBalanced('{', '}')
	if err != nil {
		return nil, err
	}
	p.pos = end

	n := newNode("expression_block", start, end)
	innerStart, innerEnd := trimSpan(p.content, start+1, end-1)
	n.setField("expression", newNode("expression", innerStart, innerEnd))

	switch leadingKeyword(p.content, innerStart, innerEnd) {
	case "if", "for", "while", "switch":
		sub := &parser{content: p.content, pos: innerStart, limit: innerEnd}
		cf, cfErr := sub.parseControlFlow()
		if cfErr == nil {
			n.addChild(cf)
			n.setField("control_flow", cf)
		}
	}
	return n, nil
}

// scanBalanced returns the offset just past the delimiter matching the one
// at the cursor, skipping string and character literals.
func (p *parser) scanBalanced(open, close byte) (int, error) {
	start := p.pos
	depth := 0
	i := p.pos
	for i < p.end() {
		switch p.content[i] {
		case open:
			depth++
			i++
		case close:
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case '"':
			sub := &parser{content: p.content, pos: i, limit: p.end()}
			sub.skipStringLiteral()
			i = sub.pos
		case '\'':
			sub := &parser{content: p.content, pos: i, limit: p.end()}
			sub.skipCharLiteral()
			i = sub.pos
		default:
			i++
		}
	}
	return 0, &ParseError{Offset: start, Msg: fmt.Sprintf("unbalanced %q", string(open))}
}

// trimSpan shrinks [start, end) over content to exclude surrounding whitespace.
func trimSpan(content []byte, start, end int) (int, int) {
	for start < end && isSpace(content[start]) {
		start++
	}
	for end > start && isSpace(content[end-1]) {
		end--
	}
	return start, end
}

// leadingKeyword returns the identifier at the start of the span, or "".
func leadingKeyword(content []byte, start, end int) string {
	i := start
	for i < end && isIdentByte(content[i]) {
		i++
	}
	return string(content[start:i])
}

// parseControlFlow parses one complete control-flow expression covering the
// whole restricted span. Trailing content makes the parse fail, which the
// caller treats as "not actually control flow".
func (p *parser) parseControlFlow() (*Node, error) {
	p.skipSpace()
	kw := p.peekKeyword()

	var (
		n   *Node
		err error
	)
	switch kw {
	case "if":
		n, err = p.parseIf()
	case "for":
		n, err = p.parseFor()
	case "while":
		n, err = p.parseWhile()
	case "switch":
		n, err = p.parseSwitch()
	default:
		return nil, p.errorf("expected control-flow keyword")
	}
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.atEnd() {
		return nil, p.errorf("trailing content after control-flow expression")
	}
	return n, nil
}

func (p *parser) peekKeyword() string {
	i := p.pos
	for i < p.end() && isIdentByte(p.content[i]) {
		i++
	}
	return string(p.content[p.pos:i])
}

func (p *parser) expectKeyword(kw string) error {
	if p.peekKeyword() != kw {
		return p.errorf("expected %q", kw)
	}
	p.pos += len(kw)
	return nil
}

// parseParenSpan parses "(...)" and returns an expression node covering the
// trimmed inner span.
func (p *parser) parseParenSpan() (*Node, error) {
	p.skipSpace()
	if p.peek() != '(' {
		return nil, p.errorf("expected '('")
	}
	start := p.pos
	end, err := p.scanBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	p.pos = end
	innerStart, innerEnd := trimSpan(p.content, start+1, end-1)
	return newNode("expression", innerStart, innerEnd), nil
}

// parsePayload parses "|...|" when present, returning nil otherwise.
func (p *parser) parsePayload() (*Node, error) {
	mark := p.pos
	p.skipSpace()
	if p.peek() != '|' {
		p.pos = mark
		return nil, nil
	}
	start := p.pos
	p.pos++
	for !p.atEnd() && p.peek() != '|' && p.peek() != '\n' {
		p.pos++
	}
	if p.peek() != '|' {
		return nil, &ParseError{Offset: start, Msg: "unterminated payload capture"}
	}
	p.pos++
	return newNode("payload", start, p.pos), nil
}

// parseBranch parses a control-flow branch: parenthesized markup,
// a parenthesized opaque expression, or a nested bare control-flow form.
func (p *parser) parseBranch() (*Node, error) {
	p.skipSpace()

	switch p.peekKeyword() {
	case "if":
		return p.parseIf()
	case "for":
		return p.parseFor()
	case "while":
		return p.parseWhile()
	case "switch":
		return p.parseSwitch()
	}

	if p.peek() != '(' {
		return nil, p.errorf("expected '(' to open branch")
	}

	// Parenthesized markup parses structurally; anything else stays opaque.
	i := p.pos + 1
	for i < p.end() && isSpace(p.content[i]) {
		i++
	}
	if i < p.end() && p.content[i] == '<' {
		p.pos++
		p.skipSpace()
		markup, err := p.parseMarkup()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("expected ')' to close branch")
		}
		p.pos++
		return markup, nil
	}

	return p.parseParenSpan()
}

func (p *parser) parseIf() (*Node, error) {
	start := p.pos
	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}

	cond, err := p.parseParenSpan()
	if err != nil {
		return nil, err
	}
	payload, err := p.parsePayload()
	if err != nil {
		return nil, err
	}
	consequence, err := p.parseBranch()
	if err != nil {
		return nil, err
	}

	n := &Node{Type: "if_expression", Kind: KindIf, StartByte: start, EndByte: p.pos}
	n.setField("condition", cond)
	n.setField("payload", payload)
	n.setField("consequence", consequence)

	mark := p.pos
	p.skipSpace()
	if p.peekKeyword() == "else" {
		p.pos += len("else")
		elsePayload, epErr := p.parsePayload()
		if epErr != nil {
			return nil, epErr
		}
		alternative, altErr := p.parseBranch()
		if altErr != nil {
			return nil, altErr
		}
		n.setField("else_payload", elsePayload)
		n.setField("alternative", alternative)
		n.EndByte = p.pos
	} else {
		p.pos = mark
	}
	return n, nil
}

func (p *parser) parseFor() (*Node, error) {
	start := p.pos
	if err := p.expectKeyword("for"); err != nil {
		return nil, err
	}

	iterable, err := p.parseParenSpan()
	if err != nil {
		return nil, err
	}
	payload, err := p.parsePayload()
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, p.errorf("expected payload capture in for expression")
	}
	body, err := p.parseBranch()
	if err != nil {
		return nil, err
	}

	n := &Node{Type: "for_expression", Kind: KindFor, StartByte: start, EndByte: p.pos}
	n.setField("iterable", iterable)
	n.setField("payload", payload)
	n.setField("body", body)
	return n, nil
}

func (p *parser) parseWhile() (*Node, error) {
	start := p.pos
	if err := p.expectKeyword("while"); err != nil {
		return nil, err
	}

	cond, err := p.parseParenSpan()
	if err != nil {
		return nil, err
	}
	payload, err := p.parsePayload()
	if err != nil {
		return nil, err
	}

	// Optional continue expression: ": (step)".
	var step *Node
	mark := p.pos
	p.skipSpace()
	if p.peek() == ':' {
		p.pos++
		step, err = p.parseParenSpan()
		if err != nil {
			return nil, err
		}
	} else {
		p.pos = mark
	}

	body, err := p.parseBranch()
	if err != nil {
		return nil, err
	}

	n := &Node{Type: "while_expression", Kind: KindWhile, StartByte: start, EndByte: p.pos}
	n.setField("condition", cond)
	n.setField("payload", payload)
	n.setField("continue", step)
	n.setField("body", body)

	mark = p.pos
	p.skipSpace()
	if p.peekKeyword() == "else" {
		p.pos += len("else")
		elsePayload, epErr := p.parsePayload()
		if epErr != nil {
			return nil, epErr
		}
		alternative, altErr := p.parseBranch()
		if altErr != nil {
			return nil, altErr
		}
		n.setField("else_payload", elsePayload)
		n.setField("else", alternative)
		n.EndByte = p.pos
	} else {
		p.pos = mark
	}
	return n, nil
}

func (p *parser) parseSwitch() (*Node, error) {
	start := p.pos
	if err := p.expectKeyword("switch"); err != nil {
		return nil, err
	}

	subject, err := p.parseParenSpan()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.peek() != '{' {
		return nil, p.errorf("expected '{' to open switch cases")
	}
	bodyEnd, err := p.scanBalanced('{', '}')
	if err != nil {
		return nil, err
	}
	p.pos++ // '{'

	n := &Node{Type: "switch_expression", Kind: KindSwitch, StartByte: start}
	n.setField("condition", subject)

	for {
		p.skipSpace()
		if p.pos >= bodyEnd-1 {
			break
		}
		c, caseErr := p.parseSwitchCase(bodyEnd - 1)
		if caseErr != nil {
			return nil, caseErr
		}
		n.addChild(c)

		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
		}
	}

	p.pos = bodyEnd
	n.EndByte = p.pos
	return n, nil
}

// parseSwitchCase parses "pattern => value" within the switch body, which
// ends at limit (the offset of the closing '}').
func (p *parser) parseSwitchCase(limit int) (*Node, error) {
	start := p.pos

	// Pattern runs to the top-level "=>".
	patStart := p.pos
	depth := 0
	for {
		if p.pos >= limit {
			return nil, &ParseError{Offset: patStart, Msg: "expected \"=>\" in switch case"}
		}
		b := p.peek()
		switch b {
		case '(', '{', '[':
			depth++
			p.pos++
		case ')', '}', ']':
			depth--
			p.pos++
		case '"':
			p.skipStringLiteral()
		case '\'':
			p.skipCharLiteral()
		case '=':
			if depth == 0 && p.peekAt(1) == '>' {
				goto patternDone
			}
			p.pos++
		default:
			p.pos++
		}
	}
patternDone:
	pStart, pEnd := trimSpan(p.content, patStart, p.pos)
	pattern := newNode("expression", pStart, pEnd)
	p.pos += 2 // "=>"

	value, err := p.parseCaseValue(limit)
	if err != nil {
		return nil, err
	}

	c := &Node{Type: "switch_case", Kind: KindSwitchCase, StartByte: start, EndByte: p.pos}
	c.setField("pattern", pattern)
	c.setField("value", value)
	return c, nil
}

// parseCaseValue parses a switch arm value: a string literal, parenthesized
// markup or expression, or a nested bare control-flow form.
func (p *parser) parseCaseValue(limit int) (*Node, error) {
	p.skipSpace()
	if p.pos >= limit {
		return nil, p.errorf("expected switch case value")
	}
	if p.peek() == '"' {
		start := p.pos
		p.skipStringLiteral()
		return newNode("string_literal", start, p.pos), nil
	}
	return p.parseBranch()
}

// hasRawEscaping reports whether a start tag carries @escaping="raw".
func hasRawEscaping(content []byte, startTag *Node) bool {
	for _, attr := range startTag.Children() {
		if attr.Kind != KindBuiltinAttribute {
			continue
		}
		name := attr.ChildByFieldName("name")
		value := attr.ChildByFieldName("value")
		if name == nil || value == nil || value.Kind != KindStringLiteral {
			continue
		}
		if string(content[name.StartByte:name.EndByte]) != "escaping" {
			continue
		}
		if StringLiteralValue(content, value) == "raw" {
			return true
		}
	}
	return false
}

// StringLiteralValue returns the contents of a string_literal node without
// its surrounding quotes. Escapes are not interpreted; the template grammar
// copies static strings verbatim.
func StringLiteralValue(content []byte, n *Node) string {
	if n == nil || n.EndByte-n.StartByte < 2 {
		return ""
	}
	if n.StartByte < 0 || n.EndByte > len(content) {
		return ""
	}
	return string(content[n.StartByte+1 : n.EndByte-1])
}
