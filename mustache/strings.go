package mustache

import "strings"

// isSpace matches the C locale whitespace class.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true

	default:
		return false
	}
}

// trim removes leading and trailing whitespace.
func trim(s string) string {
	i, j := 0, len(s)

	for i < j && isSpace(s[i]) {
		i++
	}

	for j > i && isSpace(s[j-1]) {
		j--
	}

	return s[i:j]
}

// split splits s on delim. A trailing delimiter does not yield an empty final
// element, so "a.b." splits into ["a" "b"].
func split(s string, delim byte) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, string(delim))
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}

// containsSpaceOrEquals reports whether s contains whitespace or '='.
func containsSpaceOrEquals(s string) bool {
	for i := range len(s) {
		if s[i] == '=' || isSpace(s[i]) {
			return true
		}
	}

	return false
}
