package mustache

import "strings"

// EscapeFunc transforms text emitted by escaped variables.
type EscapeFunc func(string) string

// EscapeHTML replaces &, <, >, " and ' with their HTML entities. Each
// character is replaced independently.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// EscapeNone returns s unchanged.
func EscapeNone(s string) string { return s }

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)
