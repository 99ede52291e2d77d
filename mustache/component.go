package mustache

// TagType classifies a tag component.
type TagType int

// Tag types, in the order they are recognized by sigil.
const (
	TagText TagType = iota
	TagVariable
	TagUnescapedVariable
	TagSectionBegin
	TagSectionEnd
	TagSectionBeginInverted
	TagComment
	TagPartial
	TagSetDelimiter
)

// String returns a string representation of the tag type.
func (t TagType) String() string {
	switch t {
	case TagText:
		return "text"

	case TagVariable:
		return "variable"

	case TagUnescapedVariable:
		return "unescaped"

	case TagSectionBegin:
		return "section"

	case TagSectionEnd:
		return "end"

	case TagSectionBeginInverted:
		return "inverted"

	case TagComment:
		return "comment"

	case TagPartial:
		return "partial"

	case TagSetDelimiter:
		return "delimiter"

	default:
		return "invalid"
	}
}

// MarshalText encodes t as its name.
func (t TagType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// isSectionBegin reports whether t opens a section.
func (t TagType) isSectionBegin() bool {
	return t == TagSectionBegin || t == TagSectionBeginInverted
}

// component is a node of the parse tree: either a text leaf or a tag.
type component struct {
	tag      TagType
	text     string // literal text of a TagText leaf
	name     string
	section  string // raw source between a section's begin and end tags
	delims   Delims // new delimiters of a TagSetDelimiter tag
	children []*component
	pos      int
}

// walkControl directs a tree traversal.
type walkControl int

const (
	walkContinue walkControl = iota // visit children, then siblings
	walkStop                        // abort the whole traversal
	walkSkip                        // skip children, continue with siblings
)

type walkFunc func(c *component) walkControl

// walkChildren visits every descendant of c in depth-first pre-order.
func (c *component) walkChildren(fn walkFunc) walkControl {
	ctl := walkContinue

	for _, child := range c.children {
		if ctl = child.walk(fn); ctl == walkStop {
			return ctl
		}
	}

	return ctl
}

// walk visits c and then its descendants.
func (c *component) walk(fn walkFunc) walkControl {
	switch fn(c) {
	case walkStop:
		return walkStop

	case walkSkip:
		return walkContinue

	default:
		return c.walkChildren(fn)
	}
}
