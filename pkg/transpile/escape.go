package transpile

import "strings"

// stringEscaper rewrites text for embedding inside a generated
// double-quoted string literal.
var stringEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\r", "\\r",
	"\t", "\\t",
)

// EscapeString escapes s for use inside a generated string literal.
func EscapeString(s string) string {
	return stringEscaper.Replace(s)
}
