package mustache

import "strings"

// parser builds a component tree from template text.
type parser struct {
	input  string
	delims Delims
	braces bool // triple-brace tags are recognized
	pos    int

	sections []*component // open sections, root first
	starts   []int        // offset just past each open section's begin tag
}

// parse parses input starting from delims. On failure it returns the partial
// tree along with the first error.
func parse(input string, delims Delims) (*component, *Error) {
	root := &component{}

	p := &parser{
		input:    input,
		delims:   delims,
		braces:   delims.IsDefault(),
		sections: []*component{root},
	}

	if err := p.scan(); err != nil {
		return root, err
	}

	return root, closeSections(root)
}

func (p *parser) current() *component {
	return p.sections[len(p.sections)-1]
}

func (p *parser) appendText(start, end int) {
	p.current().children = append(p.current().children, &component{
		tag:  TagText,
		text: p.input[start:end],
		pos:  start,
	})
}

func (p *parser) scan() *Error {
	for p.pos < len(p.input) {
		open := strings.Index(p.input[p.pos:], p.delims.Open)
		if open < 0 {
			p.appendText(p.pos, len(p.input))

			break
		}

		open += p.pos

		if open > p.pos {
			p.appendText(p.pos, open)
		}

		body := open + len(p.delims.Open)

		unescaped := p.braces && body < len(p.input) && p.input[body] == '{'

		closer := p.delims.Close
		if unescaped {
			closer = unescapedClose
			body++
		}

		end := strings.Index(p.input[body:], closer)
		if end < 0 {
			return ErrUnclosedTag.At(open)
		}

		end += body

		comp := &component{pos: open}
		contents := trim(p.input[body:end])

		if strings.HasPrefix(contents, "=") {
			d, ok := parseSetDelims(contents)
			if !ok {
				return ErrInvalidSetDelimiter.At(open)
			}

			p.delims = d
			p.braces = d.IsDefault()
			comp.tag = TagSetDelimiter
			comp.delims = d
		} else {
			comp.tag, comp.name = classify(contents, unescaped)
		}

		parent := p.current()
		parent.children = append(parent.children, comp)
		p.pos = end + len(closer)

		switch {
		case comp.tag.isSectionBegin():
			p.sections = append(p.sections, comp)
			p.starts = append(p.starts, p.pos)

		case comp.tag == TagSectionEnd:
			if len(p.sections) == 1 {
				return ErrUnopenedSection.Section(comp.name).At(open)
			}

			start := p.starts[len(p.starts)-1]
			parent.section = p.input[start:open]

			p.sections = p.sections[:len(p.sections)-1]
			p.starts = p.starts[:len(p.starts)-1]
		}
	}

	return nil
}

// classify determines the tag type and name from trimmed tag contents.
func classify(contents string, unescaped bool) (TagType, string) {
	if unescaped {
		return TagUnescapedVariable, contents
	}

	if contents == "" {
		return TagVariable, ""
	}

	var tag TagType

	switch contents[0] {
	case '#':
		tag = TagSectionBegin
	case '^':
		tag = TagSectionBeginInverted
	case '/':
		tag = TagSectionEnd
	case '>':
		tag = TagPartial
	case '&':
		tag = TagUnescapedVariable
	case '!':
		tag = TagComment
	default:
		return TagVariable, contents
	}

	return tag, trim(contents[1:])
}

// closeSections verifies that every section ends with its matching end tag
// and then drops the end tag from the tree.
func closeSections(root *component) *Error {
	var err *Error

	root.walkChildren(func(c *component) walkControl {
		if !c.tag.isSectionBegin() {
			return walkContinue
		}

		n := len(c.children)
		if n == 0 || c.children[n-1].tag != TagSectionEnd ||
			c.children[n-1].name != c.name {
			err = ErrUnclosedSection.Section(c.name).At(c.pos)

			return walkStop
		}

		c.children[n-1] = nil
		c.children = c.children[:n-1]

		return walkContinue
	})

	return err
}
