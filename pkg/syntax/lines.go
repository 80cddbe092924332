package syntax

import "sort"

// LineInfo records the byte extent of one source line.
type LineInfo struct {
	// StartOffset is the byte index of the first byte of the line.
	StartOffset int

	// EndOffset is the byte index just past the line's newline
	// (or past the last byte for the final line).
	EndOffset int
}

// BuildLines constructs line metadata from content.
func BuildLines(content []byte) []LineInfo {
	var lines []LineInfo
	lineStart := 0

	for idx, b := range content {
		if b == '\n' {
			lines = append(lines, LineInfo{StartOffset: lineStart, EndOffset: idx + 1})
			lineStart = idx + 1
		}
	}

	// Last line may not have a trailing newline.
	if lineStart <= len(content) {
		lines = append(lines, LineInfo{StartOffset: lineStart, EndOffset: len(content)})
	}

	return lines
}

// PositionAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes. Offsets past the end clamp to the last line.
func (t *Tree) PositionAt(offset int) (line, col int) {
	if offset < 0 || len(t.lines) == 0 {
		return 0, 0
	}

	if offset >= len(t.Content) {
		last := t.lines[len(t.lines)-1]
		return len(t.lines), offset - last.StartOffset + 1
	}

	idx := sort.Search(len(t.lines), func(i int) bool {
		return t.lines[i].EndOffset > offset
	})
	if idx >= len(t.lines) {
		idx = len(t.lines) - 1
	}

	return idx + 1, offset - t.lines[idx].StartOffset + 1
}
