package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/stache/mustache"
)

var (
	hintNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	hintKindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	hintValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintScopeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// maxPreview is the longest string value shown in a hint, in bytes.
const maxPreview = 40

// tagName returns the complete name of the tag the cursor sits in, or "" when
// the cursor is outside a tag or the tag is still empty.
func tagName(input string, cursor int) string {
	start, _, ok := openTag(input, cursor)
	if !ok {
		return ""
	}

	end := cursor
	for end < len(input) && !strings.ContainsRune(" }", rune(input[end])) {
		end++
	}

	if end <= start {
		return ""
	}

	return input[start:end]
}

// tagHint describes the value the tag at the cursor resolves to, prefixed by
// the open sections it is nested in. It returns "" when the cursor is outside
// a tag or the name does not resolve.
func tagHint(base []mustache.Value, input string, cursor int) string {
	name := tagName(input, cursor)
	if name == "" {
		return ""
	}

	start, _, _ := openTag(input, cursor)
	sections := openSections(input[:start])

	v, ok := mustache.NewStack(scopes(base, sections)...).Get(name)
	if !ok {
		return ""
	}

	var b strings.Builder

	if len(sections) > 0 {
		b.WriteString(hintScopeStyle.Render(strings.Join(sections, " › ")))
		b.WriteString(hintValueStyle.Render(" › "))
	}

	b.WriteString(hintNameStyle.Render(name))
	b.WriteString(hintValueStyle.Render(": "))
	b.WriteString(hintKindStyle.Render(v.Kind().String()))

	if preview := describe(v); preview != "" {
		b.WriteString(" ")
		b.WriteString(hintValueStyle.Render(preview))
	}

	return b.String()
}

// describe returns a short preview of v.
func describe(v mustache.Value) string {
	switch v := v.(type) {
	case mustache.String:
		s := string(v)
		if len(s) > maxPreview {
			s = s[:maxPreview-3] + "..."
		}

		return strconv.Quote(s)

	case mustache.List:
		return fmt.Sprintf("[%d items]", len(v))

	case *mustache.Object:
		return fmt.Sprintf("{ %s }", strings.Join(v.Keys(), ", "))

	default:
		return ""
	}
}
