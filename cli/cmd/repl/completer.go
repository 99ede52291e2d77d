package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stache/bind"
	"github.com/ardnew/stache/mustache"
)

// sigils are the characters that may follow an opening delimiter before the
// name of a tag that references data.
const sigils = "#^/&>{"

// openTag reports whether cursor sits inside an unclosed tag of input, and
// returns the byte offset of the first name character and the tag's sigil
// (0 for a plain variable). Only the default delimiters are recognized.
func openTag(input string, cursor int) (start int, sigil byte, ok bool) {
	if cursor > len(input) {
		cursor = len(input)
	}

	head := input[:cursor]

	i := strings.LastIndex(head, mustache.DefaultDelims.Open)
	if i < 0 || strings.Contains(head[i:], mustache.DefaultDelims.Close) {
		return 0, 0, false
	}

	// The last "{{" of "{{{" is preceded by the triple brace's first '{'.
	if i > 0 && head[i-1] == '{' {
		i--
	}

	start = i + len(mustache.DefaultDelims.Open)

	if start < len(head) {
		switch c := head[start]; {
		case c == '!' || c == '=':
			return 0, 0, false

		case strings.IndexByte(sigils, c) >= 0:
			sigil = c
			start++
		}
	}

	for start < len(head) && head[start] == ' ' {
		start++
	}

	return start, sigil, true
}

// isWordBoundary returns true if c ends a name segment for completion
// purposes.
func isWordBoundary(c byte) bool {
	switch c {
	case '.', ' ', '\t', '}', '{', '#', '^', '/', '&', '>':
		return true
	}

	return false
}

// wordBounds returns the name segment at the cursor position and its byte
// boundaries within input. Segments are delimited by dots, whitespace, braces
// and tag sigils. Returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor
	for start > 0 && !isWordBoundary(input[start-1]) {
		start--
	}

	end = cursor
	for end < len(input) && !isWordBoundary(input[end]) {
		end++
	}

	return input[start:end], start, end
}

// parentPath returns the dotted prefix of the name being typed, given the
// offset of the tag's first name character and of the current word. For
// "{{user.address.ci" with the word "ci", the parent path is "user.address".
func parentPath(input string, nameStart, wordStart int) string {
	if wordStart <= nameStart {
		return ""
	}

	return strings.TrimRight(input[nameStart:wordStart], ".")
}

// openSections returns the names of the sections left open by head, outermost
// first.
func openSections(head string) []string {
	var (
		open  []string
		delim = mustache.DefaultDelims
	)

	for {
		i := strings.Index(head, delim.Open)
		if i < 0 {
			return open
		}

		head = head[i+len(delim.Open):]

		j := strings.Index(head, delim.Close)
		if j < 0 {
			return open
		}

		tag := strings.TrimSpace(head[:j])
		head = head[j+len(delim.Close):]

		if tag == "" {
			continue
		}

		name := strings.TrimSpace(tag[1:])

		switch tag[0] {
		case '#', '^':
			open = append(open, name)

		case '/':
			if k := slices.Index(open, name); k >= 0 {
				open = open[:k]
			}
		}
	}
}

// scopes extends base with the values bound by the given open sections, the
// way a render would push them. Lists contribute their first element.
func scopes(base []mustache.Value, sections []string) []mustache.Value {
	out := slices.Clone(base)

	for _, name := range sections {
		v, ok := mustache.NewStack(out...).Get(name)
		if !ok {
			continue
		}

		if l, ok := v.(mustache.List); ok {
			if len(l) == 0 {
				continue
			}

			v = l[0]
		}

		if _, ok := v.(*mustache.Object); ok {
			out = append(out, v)
		}
	}

	return out
}

// childCandidates returns the names that are valid completions for the given
// parent path in the scope chain. For an empty parent, returns the member
// names of every scope, innermost first. For a non-empty parent, returns the
// members of the object it names in the innermost scope that resolves it.
func childCandidates(chain []mustache.Value, parent string) []string {
	var names []string

	for i := len(chain) - 1; i >= 0; i-- {
		children := bind.Children(chain[i], parent)
		if parent != "" && children != nil {
			return children
		}

		for _, name := range children {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list, and
// the word boundaries. Outside a tag there are no template matches. When the
// word is empty after a dot, it returns every member as a match.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = commandNames()
	} else {
		nameStart, _, ok := openTag(input, cursor)
		if !ok || wordStart < nameStart {
			return nil, nil, wordStart, wordEnd
		}

		parent := parentPath(input, nameStart, wordStart)
		chain := scopes(m.session.Scopes(), openSections(input[:nameStart]))
		candidates = childCandidates(chain, parent)

		// After a dot, show all members immediately so the user can browse
		// them. At the start of a tag, wait for a character.
		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	sel int,
	cycling bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := cycling && i == sel
		rendered := renderCandidate(match, selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
