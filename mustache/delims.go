package mustache

import "strings"

// Delims is the pair of strings that open and close a tag.
type Delims struct {
	Open  string `json:"open"  yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// DefaultDelims is the delimiter set every template starts with unless
// overridden by [WithDelims].
var DefaultDelims = Delims{Open: "{{", Close: "}}"}

// unescapedClose closes a triple-brace tag.
const unescapedClose = "}}}"

// IsDefault reports whether d equals [DefaultDelims].
func (d Delims) IsDefault() bool {
	return d == DefaultDelims
}

// Valid reports whether both delimiters are non-empty and free of
// whitespace and '='.
func (d Delims) Valid() bool {
	return d.Open != "" && d.Close != "" &&
		!containsSpaceOrEquals(d.Open) && !containsSpaceOrEquals(d.Close)
}

// parseSetDelims parses the trimmed contents of a set-delimiter tag, such as
// "=<% %>=". The smallest legal tag is "=X X=".
func parseSetDelims(contents string) (Delims, bool) {
	if len(contents) < 5 || contents[len(contents)-1] != '=' {
		return Delims{}, false
	}

	inner := trim(contents[1 : len(contents)-1])

	sp := strings.IndexByte(inner, ' ')
	if sp < 0 {
		return Delims{}, false
	}

	d := Delims{
		Open:  inner[:sp],
		Close: strings.TrimLeft(inner[sp+1:], " "),
	}

	if !d.Valid() {
		return Delims{}, false
	}

	return d, true
}
