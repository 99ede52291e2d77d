package mustache

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func obj(kv ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1].(Value))
	}

	return o
}

func strs(ss ...string) List {
	l := make(List, len(ss))
	for i, s := range ss {
		l[i] = String(s)
	}

	return l
}

// TestRender verifies rendering of each tag type against data.
func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data Value
		want string
	}{
		{
			name: "identity",
			tmpl: "Hello, world!\n  }} {",
			data: NewObject(),
			want: "Hello, world!\n  }} {",
		},
		{
			name: "variable",
			tmpl: "Hello, {{name}}!",
			data: obj("name", String("Bo")),
			want: "Hello, Bo!",
		},
		{
			name: "padded name",
			tmpl: "{{  name  }}",
			data: obj("name", String("Bo")),
			want: "Bo",
		},
		{
			name: "escaped",
			tmpl: "{{v}}",
			data: obj("v", String(`<a href="x">&'`)),
			want: "&lt;a href=&quot;x&quot;&gt;&amp;&apos;",
		},
		{
			name: "triple brace",
			tmpl: "{{{v}}}",
			data: obj("v", String(`<a href="x">&'`)),
			want: `<a href="x">&'`,
		},
		{
			name: "ampersand",
			tmpl: "{{& v}}",
			data: obj("v", String(`<&>`)),
			want: `<&>`,
		},
		{
			name: "missing variable",
			tmpl: "[{{missing}}]",
			data: NewObject(),
			want: "[]",
		},
		{
			name: "non-string variable",
			tmpl: "[{{t}}{{l}}{{o}}]",
			data: obj("t", True, "l", strs("a"), "o", NewObject()),
			want: "[]",
		},
		{
			name: "empty tag",
			tmpl: "[{{}}]",
			data: obj("", String("e")),
			want: "[e]",
		},
		{
			name: "comment",
			tmpl: "a{{! ignore me }}b",
			data: NewObject(),
			want: "ab",
		},
		{
			name: "list section",
			tmpl: "{{#items}}[{{.}}]{{/items}}",
			data: obj("items", strs("a", "b", "c")),
			want: "[a][b][c]",
		},
		{
			name: "empty list section",
			tmpl: "{{#items}}[{{.}}]{{/items}}",
			data: obj("items", List{}),
			want: "",
		},
		{
			name: "list of objects",
			tmpl: "{{#people}}{{name}},{{/people}}",
			data: obj("people", List{
				obj("name", String("a")),
				obj("name", String("b")),
			}),
			want: "a,b,",
		},
		{
			name: "true section",
			tmpl: "{{#t}}yes {{name}}{{/t}}",
			data: obj("t", True, "name", String("Bo")),
			want: "yes Bo",
		},
		{
			name: "false section",
			tmpl: "{{#f}}yes{{/f}}",
			data: obj("f", False),
			want: "",
		},
		{
			name: "missing section",
			tmpl: "a{{#m}}yes{{/m}}b",
			data: NewObject(),
			want: "ab",
		},
		{
			name: "object section",
			tmpl: "{{#person}}{{name}} is {{age}}{{/person}}",
			data: obj("person", obj("name", String("Bo"), "age", String("7"))),
			want: "Bo is 7",
		},
		{
			name: "string section",
			tmpl: "{{#s}}<{{.}}>{{/s}}",
			data: obj("s", String("x")),
			want: "<x>",
		},
		{
			name: "nested sections",
			tmpl: "{{#a}}{{#b}}{{c}}{{/b}}{{/a}}",
			data: obj("a", obj("b", obj("c", String("deep")))),
			want: "deep",
		},
		{
			name: "outer scope visible",
			tmpl: "{{#items}}{{.}}{{sep}}{{/items}}",
			data: obj("items", strs("a", "b"), "sep", String(";")),
			want: "a;b;",
		},
		{
			name: "inverted missing",
			tmpl: "{{^m}}Y{{/m}}",
			data: NewObject(),
			want: "Y",
		},
		{
			name: "inverted false",
			tmpl: "{{^f}}Y{{/f}}",
			data: obj("f", False),
			want: "Y",
		},
		{
			name: "inverted empty list",
			tmpl: "{{^l}}Y{{/l}}",
			data: obj("l", List{}),
			want: "Y",
		},
		{
			name: "inverted true",
			tmpl: "{{^t}}Y{{/t}}",
			data: obj("t", True),
			want: "",
		},
		{
			name: "inverted list",
			tmpl: "{{^l}}Y{{/l}}",
			data: obj("l", strs("a")),
			want: "",
		},
		{
			name: "inverted string",
			tmpl: "{{^s}}Y{{/s}}",
			data: obj("s", String("")),
			want: "",
		},
		{
			name: "inverted does not push",
			tmpl: "{{^f}}{{#.}}pushed{{/.}}{{name}}{{/f}}",
			data: obj("f", False, "name", String("Bo")),
			want: "pushedBo",
		},
		{
			name: "dotted path",
			tmpl: "{{a.b.c}}",
			data: obj("a", obj("b", obj("c", String("x")))),
			want: "x",
		},
		{
			name: "dotted path falls through",
			tmpl: "{{#s}}{{a.b.c}}{{/s}}",
			data: obj(
				"a", obj("b", obj("c", String("outer"))),
				"s", obj("a", obj("b", NewObject())),
			),
			want: "outer",
		},
		{
			name: "dotted path shadowed",
			tmpl: "{{#s}}{{a.b}}{{/s}}",
			data: obj(
				"a", obj("b", String("outer")),
				"s", obj("a", obj("b", String("inner"))),
			),
			want: "inner",
		},
		{
			name: "dotted path unresolved",
			tmpl: "[{{a.x}}]",
			data: obj("a", obj("b", String("x"))),
			want: "[]",
		},
		{
			name: "dotted path through string",
			tmpl: "[{{a.b}}]",
			data: obj("a", String("x")),
			want: "[]",
		},
		{
			name: "set delimiters",
			tmpl: "{{=<% %>=}}<%name%> {{name}}",
			data: obj("name", String("Bo")),
			want: "Bo {{name}}",
		},
		{
			name: "set delimiters back",
			tmpl: "{{=<% %>=}}<%name%><%={{ }}=%>{{name}}",
			data: obj("name", String("Bo")),
			want: "BoBo",
		},
		{
			name: "triple brace disabled by delimiters",
			tmpl: "{{=<% %>=}}[<%{v}%>]",
			data: obj("v", String("<")),
			want: "[]",
		},
		{
			name: "triple brace restored by delimiters",
			tmpl: "{{=<% %>=}}<%={{ }}=%>{{{v}}}",
			data: obj("v", String("<")),
			want: "<",
		},
		{
			name: "set delimiters in section",
			tmpl: "{{#s}}{{=| |=}}|name||/s|",
			data: obj("s", True, "name", String("Bo")),
			want: "Bo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := New(tt.tmpl)
			if !tmpl.Valid() {
				t.Fatalf("New(%q) error: %s", tt.tmpl, tmpl.ErrorMessage())
			}

			if got := tmpl.Render(tt.data); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}

			if !tmpl.Valid() {
				t.Errorf("Render(%q) error: %s", tt.tmpl, tmpl.ErrorMessage())
			}
		})
	}
}

// TestRender_Partial verifies partial resolution and nesting.
func TestRender_Partial(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data Value
		want string
	}{
		{
			name: "callback",
			tmpl: "[{{>p}}]",
			data: obj(
				"p", Partial(func() string { return "Hi {{name}}" }),
				"name", String("Bo"),
			),
			want: "[Hi Bo]",
		},
		{
			name: "string",
			tmpl: "[{{> p }}]",
			data: obj("p", String("Hi {{name}}"), "name", String("Bo")),
			want: "[Hi Bo]",
		},
		{
			name: "missing",
			tmpl: "[{{>p}}]",
			data: NewObject(),
			want: "[]",
		},
		{
			name: "not text",
			tmpl: "[{{>p}}]",
			data: obj("p", True),
			want: "[]",
		},
		{
			name: "inherits context",
			tmpl: "{{#items}}{{>p}}{{/items}}",
			data: obj("items", strs("a", "b"), "p", String("<{{.}}>")),
			want: "<a><b>",
		},
		{
			name: "inherits delimiters",
			tmpl: "{{=<% %>=}}<%>p%>",
			data: obj("p", String("<%name%>"), "name", String("Bo")),
			want: "Bo",
		},
		{
			name: "delimiters do not leak",
			tmpl: "{{>p}}{{name}}",
			data: obj("p", String("{{=| |=}}|name|"), "name", String("Bo")),
			want: "BoBo",
		},
		{
			name: "nested partial",
			tmpl: "{{>outer}}",
			data: obj(
				"outer", String("({{>inner}})"),
				"inner", String("{{name}}"),
				"name", String("Bo"),
			),
			want: "(Bo)",
		},
		{
			name: "recursive partial terminates on data",
			tmpl: "{{>node}}",
			data: obj(
				"node", String("{{name}}{{#kids}}({{>node}}){{/kids}}"),
				"name", String("root"),
				"kids", List{
					obj("name", String("a"), "kids", List{}),
					obj("name", String("b"), "kids", List{}),
				},
			),
			want: "root(a)(b)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := New(tt.tmpl)
			if got := tmpl.Render(tt.data); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}

			if !tmpl.Valid() {
				t.Errorf("Render(%q) error: %s", tt.tmpl, tmpl.ErrorMessage())
			}
		})
	}
}

// TestRender_PartialDeferred verifies a partial callback runs at render time
// only.
func TestRender_PartialDeferred(t *testing.T) {
	calls := 0
	data := obj("p", Partial(func() string {
		calls++

		return "x"
	}))

	tmpl := New("{{>p}}{{>p}}")
	if calls != 0 {
		t.Fatalf("partial invoked %d times during parse", calls)
	}

	if got := tmpl.Render(data); got != "xx" {
		t.Errorf("Render() = %q, want %q", got, "xx")
	}

	if calls != 2 {
		t.Errorf("partial invoked %d times, want 2", calls)
	}
}

// TestRender_PartialError verifies that a nested error stops the walk and
// latches the parent invalid without retracting output.
func TestRender_PartialError(t *testing.T) {
	tmpl := New("a{{>p}}b")
	data := obj("p", String("{{#x}}"))

	if got := tmpl.Render(data); got != "a" {
		t.Errorf("Render() = %q, want %q", got, "a")
	}

	if got, want := tmpl.ErrorMessage(), `Unclosed section "x" at 0`; got != want {
		t.Errorf("ErrorMessage() = %q, want %q", got, want)
	}

	if got := tmpl.Render(data); got != "" {
		t.Errorf("second Render() = %q, want empty", got)
	}
}

// TestRender_Lambda verifies lambdas in variable and section position.
func TestRender_Lambda(t *testing.T) {
	var seen []string

	record := func(out string) Lambda {
		return func(text string) string {
			seen = append(seen, text)

			return out
		}
	}

	wrap := LambdaRender(func(text string, r Renderer) string {
		seen = append(seen, text)

		return "<b>" + r.Render(text) + "</b>"
	})

	escaped := LambdaRender(func(text string, r Renderer) string {
		return r.RenderEscaped(text, true) + "|" + r.RenderEscaped(text, false)
	})

	tests := []struct {
		name string
		tmpl string
		data Value
		want string
		seen []string
	}{
		{
			name: "variable escaped",
			tmpl: "{{l}}",
			data: obj("l", record("<{{name}}>"), "name", String("Bo")),
			want: "&lt;Bo&gt;",
			seen: []string{""},
		},
		{
			name: "variable unescaped",
			tmpl: "{{&l}}",
			data: obj("l", record("<{{name}}>"), "name", String("Bo")),
			want: "<Bo>",
			seen: []string{""},
		},
		{
			name: "variable triple brace",
			tmpl: "{{{l}}}",
			data: obj("l", record("<{{name}}>"), "name", String("Bo")),
			want: "<Bo>",
			seen: []string{""},
		},
		{
			name: "variable uses default delimiters",
			tmpl: "{{=<% %>=}}<%&l%>",
			data: obj("l", record("{{name}}<%name%>"), "name", String("Bo")),
			want: "Bo<%name%>",
			seen: []string{""},
		},
		{
			name: "variable renders in current scope",
			tmpl: "{{#items}}{{&l}}{{/items}}",
			data: obj("items", strs("a", "b"), "l", record("{{.}}")),
			want: "ab",
			seen: []string{"", ""},
		},
		{
			name: "section receives raw text",
			tmpl: "{{#l}}hi {{name}}{{/l}}",
			data: obj("l", record("{{name}}!"), "name", String("<")),
			want: "&lt;!",
			seen: []string{"hi {{name}}"},
		},
		{
			name: "section uses current delimiters",
			tmpl: "{{=<% %>=}}<%#l%><%name%><%/l%>",
			data: obj("l", Lambda(func(s string) string { return s }), "name", String("Bo")),
			want: "Bo",
		},
		{
			name: "render handle",
			tmpl: "{{#w}}hi {{name}}{{/w}}",
			data: obj("w", wrap, "name", String("Bo")),
			want: "<b>hi Bo</b>",
			seen: []string{"hi {{name}}"},
		},
		{
			name: "render handle escaping",
			tmpl: "{{#e}}<{{name}}>{{/e}}",
			data: obj("e", escaped, "name", String("Bo")),
			want: "&lt;Bo&gt;|<Bo>",
		},
		{
			name: "render handle in list",
			tmpl: "{{#items}}{{#w}}{{.}}{{/w}}{{/items}}",
			data: obj("items", strs("a", "b"), "w", wrap),
			want: "<b>a</b><b>b</b>",
			seen: []string{"{{.}}", "{{.}}"},
		},
		{
			name: "lambda in inverted section",
			tmpl: "{{^l}}no{{/l}}",
			data: obj("l", record("x")),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil

			tmpl := New(tt.tmpl)
			if got := tmpl.Render(tt.data); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}

			if !tmpl.Valid() {
				t.Errorf("Render(%q) error: %s", tt.tmpl, tmpl.ErrorMessage())
			}

			if tt.seen != nil && strings.Join(seen, "|") != strings.Join(tt.seen, "|") {
				t.Errorf("lambda received %q, want %q", seen, tt.seen)
			}
		})
	}
}

// TestRender_LambdaVariableError verifies that a render lambda is rejected in
// variable position.
func TestRender_LambdaVariableError(t *testing.T) {
	l := LambdaRender(func(string, Renderer) string { return "never" })
	stack := NewStack(obj("l", l, "s", True))

	tmpl := New("a{{#s}}b{{l}}c{{/s}}d")

	if got := tmpl.RenderContext(stack); got != "ab" {
		t.Errorf("RenderContext() = %q, want %q", got, "ab")
	}

	want := "Lambda with render argument is not allowed for regular variables"
	if got := tmpl.ErrorMessage(); got != want {
		t.Errorf("ErrorMessage() = %q, want %q", got, want)
	}

	if !errors.Is(tmpl.Err(), ErrLambdaVariable) {
		t.Errorf("Err() = %v, want ErrLambdaVariable", tmpl.Err())
	}

	if stack.Len() != 1 {
		t.Errorf("stack depth after error = %d, want 1", stack.Len())
	}
}

// TestRender_LambdaNestedError verifies that an invalid template produced by
// a lambda propagates its error.
func TestRender_LambdaNestedError(t *testing.T) {
	l := Lambda(func(string) string { return "{{/oops}}" })

	tmpl := New("x{{#l}}{{/l}}y")
	if got := tmpl.Render(obj("l", l)); got != "x" {
		t.Errorf("Render() = %q, want %q", got, "x")
	}

	if got, want := tmpl.ErrorMessage(), `Unopened section "oops" at 0`; got != want {
		t.Errorf("ErrorMessage() = %q, want %q", got, want)
	}
}

// TestRender_CustomEscape verifies escape customization and its inheritance
// by partials.
func TestRender_CustomEscape(t *testing.T) {
	data := obj("v", String("ab"), "p", String("{{v}}"))

	tmpl := New("{{v}}-{{&v}}-{{>p}}", WithEscape(strings.ToUpper))
	if got, want := tmpl.Render(data), "AB-ab-AB"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	tmpl.SetEscape(EscapeNone)
	if got, want := tmpl.Render(obj("v", String("<"))), "<-<-"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	tmpl.SetEscape(nil)
	if got, want := tmpl.Render(obj("v", String("<"))), "&lt;-<-"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

// TestRender_WithDelims verifies a template can start with custom delimiters.
func TestRender_WithDelims(t *testing.T) {
	data := obj("name", String("Bo"), "p", String("[name]"))

	tmpl := New("{{name}} [name] [>p]", WithDelims(Delims{"[", "]"}))
	if got, want := tmpl.Render(data), "{{name}} Bo Bo"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	tmpl = New("{{name}}", WithDelims(Delims{"", "]"}))
	if got := tmpl.Delims(); got != DefaultDelims {
		t.Errorf("Delims() = %+v, want default", got)
	}
}

// mapContext resolves every name to its upper-case form.
type mapContext struct {
	depth int
}

func (c *mapContext) Push(Value) { c.depth++ }
func (c *mapContext) Pop()       { c.depth-- }

func (c *mapContext) Get(name string) (Value, bool) {
	if name == "flag" {
		return True, true
	}

	return String(strings.ToUpper(name)), true
}

func (c *mapContext) GetPartial(name string) (Value, bool) {
	return String("<{{" + name + "x}}>"), true
}

// TestRenderContext verifies rendering against a caller-supplied Context.
func TestRenderContext(t *testing.T) {
	ctx := &mapContext{}

	tmpl := New("{{a}} {{#flag}}{{b.c}}{{/flag}} {{>p}}")
	if got, want := tmpl.RenderContext(ctx), "A B.C <PX>"; got != want {
		t.Errorf("RenderContext() = %q, want %q", got, want)
	}

	if ctx.depth != 0 {
		t.Errorf("context depth = %d, want 0", ctx.depth)
	}
}

// TestRenderTo verifies streaming output to a writer.
func TestRenderTo(t *testing.T) {
	var buf bytes.Buffer

	tmpl := New("{{#items}}{{.}}{{/items}}")
	if err := tmpl.RenderTo(&buf, obj("items", strs("a", "b", "c"))); err != nil {
		t.Fatalf("RenderTo() error: %v", err)
	}

	if got := buf.String(); got != "abc" {
		t.Errorf("RenderTo() wrote %q, want %q", got, "abc")
	}

	werr := errors.New("write failed")
	if err := tmpl.RenderTo(failWriter{werr}, obj("items", strs("a"))); !errors.Is(err, werr) {
		t.Errorf("RenderTo() error = %v, want %v", err, werr)
	}

	bad := New("{{l}}")
	l := LambdaRender(func(string, Renderer) string { return "" })

	if err := bad.RenderTo(&buf, obj("l", l)); !errors.Is(err, ErrLambdaVariable) {
		t.Errorf("RenderTo() error = %v, want ErrLambdaVariable", err)
	}
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

// TestRenderFunc verifies output is passed to the sink in order.
func TestRenderFunc(t *testing.T) {
	var parts []string

	New("a{{b}}c").RenderFunc(obj("b", String("B")), func(s string) {
		parts = append(parts, s)
	})

	if got, want := strings.Join(parts, "|"), "a|B|c"; got != want {
		t.Errorf("emitted %q, want %q", got, want)
	}
}

// TestRender_NilData verifies rendering against no data.
func TestRender_NilData(t *testing.T) {
	tmpl := New("a{{x}}{{.}}{{#y}}z{{/y}}{{^y}}w{{/y}}")
	if got, want := tmpl.Render(nil), "aw"; got != want {
		t.Errorf("Render(nil) = %q, want %q", got, want)
	}
}
