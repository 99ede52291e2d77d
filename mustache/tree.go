package mustache

import "slices"

// Node is an exported snapshot of one parse tree component, suitable for
// encoding.
type Node struct {
	Type     string  `json:"type"               yaml:"type"`
	Name     string  `json:"name,omitempty"     yaml:"name,omitempty"`
	Text     string  `json:"text,omitempty"     yaml:"text,omitempty"`
	Delims   *Delims `json:"delims,omitempty"   yaml:"delims,omitempty"`
	Offset   int     `json:"offset"             yaml:"offset"`
	Children []Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree returns a snapshot of the parse tree. The tree of an invalid template
// contains the components parsed before the error.
func (t *Template) Tree() []Node {
	return nodes(t.root.children)
}

func nodes(cs []*component) []Node {
	if len(cs) == 0 {
		return nil
	}

	out := make([]Node, 0, len(cs))

	for _, c := range cs {
		n := Node{
			Type:     c.tag.String(),
			Name:     c.name,
			Offset:   c.pos,
			Children: nodes(c.children),
		}

		switch c.tag {
		case TagText:
			n.Text = c.text

		case TagSectionBegin, TagSectionBeginInverted:
			n.Text = c.section

		case TagSetDelimiter:
			d := c.delims
			n.Delims = &d
		}

		out = append(out, n)
	}

	return out
}

// Reference is a name referenced by a tag.
type Reference struct {
	Name    string      `json:"name"              yaml:"name"`              // as written in the tag
	Tag     TagType     `json:"tag"               yaml:"tag"`               // variable, unescaped, section, inverted or partial
	Offset  int         `json:"offset"            yaml:"offset"`            // byte offset of the tag
	Enclose []Reference `json:"enclose,omitempty" yaml:"enclose,omitempty"` // enclosing sections, outermost first
}

// Scopes returns the names of the enclosing sections that push a scope when
// their body renders, outermost first. Inverted sections push nothing.
func (r Reference) Scopes() []string {
	var names []string

	for _, e := range r.Enclose {
		if e.Tag == TagSectionBegin {
			names = append(names, e.Name)
		}
	}

	return names
}

// Names returns every name referenced by a variable, section or partial tag
// in source order.
func (t *Template) Names() []Reference {
	var (
		refs  []Reference
		scope []Reference
	)

	var visit func(cs []*component)

	visit = func(cs []*component) {
		for _, c := range cs {
			switch c.tag {
			case TagVariable, TagUnescapedVariable, TagPartial:
				refs = append(refs, Reference{
					Name:    c.name,
					Tag:     c.tag,
					Offset:  c.pos,
					Enclose: slices.Clone(scope),
				})

			case TagSectionBegin, TagSectionBeginInverted:
				refs = append(refs, Reference{
					Name:    c.name,
					Tag:     c.tag,
					Offset:  c.pos,
					Enclose: slices.Clone(scope),
				})

				scope = append(scope, Reference{Name: c.name, Tag: c.tag, Offset: c.pos})
				visit(c.children)
				scope = scope[:len(scope)-1]
			}
		}
	}

	visit(t.root.children)

	return refs
}
