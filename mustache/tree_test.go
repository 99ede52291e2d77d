package mustache

import (
	"slices"
	"testing"
)

func TestTemplate_Tree(t *testing.T) {
	tmpl := New("a{{b}}c{{#s}}x{{/s}}{{=<% %>=}}")
	if !tmpl.Valid() {
		t.Fatal(tmpl.ErrorMessage())
	}

	got := tmpl.Tree()

	want := []Node{
		{Type: "text", Text: "a", Offset: 0},
		{Type: "variable", Name: "b", Offset: 1},
		{Type: "text", Text: "c", Offset: 6},
		{Type: "section", Name: "s", Text: "x", Offset: 7},
		{Type: "delimiter", Offset: 20},
	}

	if len(got) != len(want) {
		t.Fatalf("Tree() has %d nodes, want %d: %+v", len(got), len(want), got)
	}

	for i := range want {
		g, w := got[i], want[i]
		if g.Type != w.Type || g.Name != w.Name || g.Text != w.Text || g.Offset != w.Offset {
			t.Errorf("node %d = %+v, want %+v", i, g, w)
		}
	}

	if kids := got[3].Children; len(kids) != 1 || kids[0].Text != "x" || kids[0].Offset != 13 {
		t.Errorf("section children = %+v, want one text node x at 13", kids)
	}

	if d := got[4].Delims; d == nil || *d != (Delims{"<%", "%>"}) {
		t.Errorf("delimiter node delims = %+v", d)
	}
}

func TestTemplate_Names(t *testing.T) {
	tmpl := New("{{a}}{{#s}}{{&b}}{{^t}}{{>p}}{{/t}}{{/s}}{{! c }}")
	if !tmpl.Valid() {
		t.Fatal(tmpl.ErrorMessage())
	}

	refs := tmpl.Names()

	want := []struct {
		name    string
		tag     TagType
		enclose int
	}{
		{"a", TagVariable, 0},
		{"s", TagSectionBegin, 0},
		{"b", TagUnescapedVariable, 1},
		{"t", TagSectionBeginInverted, 1},
		{"p", TagPartial, 2},
	}

	if len(refs) != len(want) {
		t.Fatalf("Names() = %+v, want %d refs", refs, len(want))
	}

	for i, w := range want {
		r := refs[i]
		if r.Name != w.name || r.Tag != w.tag || len(r.Enclose) != w.enclose {
			t.Errorf("ref %d = %+v, want %+v", i, r, w)
		}
	}

	p := refs[4]
	if p.Enclose[0].Name != "s" || p.Enclose[0].Tag != TagSectionBegin ||
		p.Enclose[1].Name != "t" || p.Enclose[1].Tag != TagSectionBeginInverted {
		t.Errorf("partial enclosed by %+v, want section s then inverted t", p.Enclose)
	}

	if got := p.Scopes(); !slices.Equal(got, []string{"s"}) {
		t.Errorf("Scopes() = %v, want [s]", got)
	}
}

func TestTagType_MarshalText(t *testing.T) {
	b, err := TagSectionBeginInverted.MarshalText()
	if err != nil || string(b) != "inverted" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}
}
