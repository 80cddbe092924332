package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gozx/pkg/syntax"
)

// FormatParseError formats a template parse error for terminal output.
// When the error carries a position, the location is rendered path:line:col
// and, if source is non-empty, the offending line is shown with a caret.
func (s *Styles) FormatParseError(path string, err error, source []byte) string {
	var parseErr *syntax.ParseError
	if !errors.As(err, &parseErr) {
		return fmt.Sprintf("  %s  %s  %s\n",
			s.FilePath.Render(path),
			s.Error.Render("error"),
			s.Message.Render(err.Error()),
		)
	}

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		parseErr.Line,
		parseErr.Column,
	)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(parseErr.Msg),
	))

	if line := sourceLineAt(source, parseErr.Line); line != "" {
		builder.WriteString(s.FormatSourceContext(line, parseErr.Column))
	}

	return builder.String()
}

// FormatSkip formats a skipped-file notice.
func (s *Styles) FormatSkip(path, reason string) string {
	return fmt.Sprintf("  %s  %s\n",
		s.FilePath.Render(path),
		s.Dim.Render("skipped: "+reason),
	)
}

// FormatChanged formats a file that check mode found out of date.
func (s *Styles) FormatChanged(path string) string {
	return fmt.Sprintf("  %s  %s\n",
		s.FilePath.Render(path),
		s.Changed.Render("needs formatting"),
	)
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	// Source line
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	// Caret marker
	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// sourceLineAt returns the 1-based line from content, without its
// terminator, or "" when out of range.
func sourceLineAt(content []byte, line int) string {
	if line < 1 || len(content) == 0 {
		return ""
	}
	lines := strings.Split(string(content), "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
