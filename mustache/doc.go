// Package mustache implements the Mustache template language: variable
// interpolation, sections, inverted sections, partials, comments, lambdas and
// custom delimiters.
//
// # Usage
//
// A [Template] is parsed once by [New] and rendered any number of times
// against a data [Value]:
//
//	tmpl := mustache.New("Hello, {{name}}!")
//	if !tmpl.Valid() {
//		return tmpl.Err()
//	}
//
//	data := mustache.NewObject().Set("name", mustache.String("World"))
//	fmt.Println(tmpl.Render(data)) // Hello, World!
//
// # Values
//
// [Value] is a closed sum type. Its variants are [*Object], [String], [List],
// [True], [False], [Partial], [Lambda] and [LambdaRender]. The zero value and
// the result of [Take] is [Invalid]. Use [FromNative] to convert ordinary Go
// values (maps, slices, strings, numbers, functions) into a [Value].
//
// # Tags
//
//	{{name}}          escaped variable
//	{{{name}}}        unescaped variable (default delimiters only)
//	{{&name}}         unescaped variable
//	{{#name}}..{{/name}}  section
//	{{^name}}..{{/name}}  inverted section
//	{{>name}}         partial
//	{{! comment }}    comment
//	{{=<% %>=}}       set delimiters
//
// Names may be dotted paths (a.b.c). The single name "." refers to the
// innermost context value.
//
// # Scoping
//
// Names resolve against a [Context], a stack of values searched from the
// innermost (most recently pushed) entry outward. Sections push the value they
// iterate. A dotted name resolves in the first entry where every segment
// resolves.
//
// # Errors
//
// The first parse or render error latches the template invalid. Rendering an
// invalid template produces no output. [Template.ErrorMessage] returns one of:
//
//	Unclosed tag at {offset}
//	Invalid set delimiter tag at {offset}
//	Unopened section "{name}" at {offset}
//	Unclosed section "{name}" at {offset}
//	Lambda with render argument is not allowed for regular variables
//
// A rendered [Value] tree is borrowed by the render call and must not be
// mutated until the call returns.
package mustache
