package mustache

import (
	"iter"
	"slices"
)

// Kind identifies the active variant of a [Value].
type Kind int

const (
	// KindInvalid is the kind of the zero Value and of moved-from values.
	KindInvalid Kind = iota

	// KindObject maps string keys to values.
	KindObject

	// KindString is text.
	KindString

	// KindList is an ordered sequence of values.
	KindList

	// KindTrue is boolean true.
	KindTrue

	// KindFalse is boolean false.
	KindFalse

	// KindPartial produces template text on demand.
	KindPartial

	// KindLambda maps raw template text to template text.
	KindLambda

	// KindLambdaRender maps raw template text to output text with access to
	// a [Renderer].
	KindLambdaRender
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "Object"

	case KindString:
		return "String"

	case KindList:
		return "List"

	case KindTrue:
		return "True"

	case KindFalse:
		return "False"

	case KindPartial:
		return "Partial"

	case KindLambda:
		return "Lambda"

	case KindLambdaRender:
		return "LambdaRender"

	default:
		return "Invalid"
	}
}

// Value is a template-bindable value. The set of implementations is closed;
// see the package documentation for the variants.
type Value interface {
	// Kind reports the active variant.
	Kind() Kind

	// Clone returns a deep copy. Functions are copied by reference.
	Clone() Value

	value()
}

// Renderer is the handle passed to a [LambdaRender]. It renders template
// text against the context and delimiters active where the lambda was
// invoked.
type Renderer interface {
	// Render renders text without escaping the result.
	Render(text string) string

	// RenderEscaped renders text and escapes the result when escaped is true.
	RenderEscaped(text string, escaped bool) string
}

type (
	// String is a text value.
	String string

	// List is an ordered sequence of values.
	List []Value

	// Partial returns template text when a partial tag is rendered.
	// It is not invoked until render time.
	Partial func() string

	// Lambda receives the raw, unparsed text of the section it is bound to
	// (empty in variable position) and returns template text, which is parsed
	// and rendered in place.
	Lambda func(text string) string

	// LambdaRender receives the raw section text and a [Renderer]; its
	// return value is emitted verbatim. It is only valid in section position.
	LambdaRender func(text string, render Renderer) string

	trueValue    struct{}
	falseValue   struct{}
	invalidValue struct{}
)

var (
	// True is the boolean true value.
	True Value = trueValue{}

	// False is the boolean false value.
	False Value = falseValue{}

	// Invalid is the zero value sentinel.
	Invalid Value = invalidValue{}
)

// Bool returns [True] or [False].
func Bool(b bool) Value {
	if b {
		return True
	}

	return False
}

func (String) Kind() Kind       { return KindString }
func (List) Kind() Kind         { return KindList }
func (Partial) Kind() Kind      { return KindPartial }
func (Lambda) Kind() Kind       { return KindLambda }
func (LambdaRender) Kind() Kind { return KindLambdaRender }
func (trueValue) Kind() Kind    { return KindTrue }
func (falseValue) Kind() Kind   { return KindFalse }
func (invalidValue) Kind() Kind { return KindInvalid }

func (s String) Clone() Value       { return s }
func (p Partial) Clone() Value      { return p }
func (l Lambda) Clone() Value       { return l }
func (l LambdaRender) Clone() Value { return l }
func (v trueValue) Clone() Value    { return v }
func (v falseValue) Clone() Value   { return v }
func (v invalidValue) Clone() Value { return v }

func (l List) Clone() Value {
	if l == nil {
		return List(nil)
	}

	out := make(List, len(l))
	for i, v := range l {
		out[i] = clone(v)
	}

	return out
}

// Append returns l with vs added to the end.
func (l List) Append(vs ...Value) List { return append(l, vs...) }

func (String) value()       {}
func (List) value()         {}
func (Partial) value()      {}
func (Lambda) value()       {}
func (LambdaRender) value() {}
func (trueValue) value()    {}
func (falseValue) value()   {}
func (invalidValue) value() {}

// Object maps unique string keys to values. Keys are kept in insertion order.
// The zero Object is empty and ready to use.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Kind implements [Value].
func (*Object) Kind() Kind { return KindObject }

func (*Object) value() {}

// Clone implements [Value].
func (o *Object) Clone() Value {
	if o == nil {
		return NewObject()
	}

	out := &Object{
		keys:   slices.Clone(o.keys),
		values: make(map[string]Value, len(o.values)),
	}

	for k, v := range o.values {
		out.values[k] = clone(v)
	}

	return out
}

// Set binds key to v, replacing any previous binding while keeping the key's
// original position. It returns the receiver for chaining.
func (o *Object) Set(key string, v Value) *Object {
	if o.values == nil {
		o.values = make(map[string]Value)
	}

	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.values[key] = v

	return o
}

// Get returns the value bound to key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}

	v, ok := o.values[key]

	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// All returns an iterator over key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}

		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// KindOf returns the kind of v, treating nil as [KindInvalid].
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}

	return v.Kind()
}

// IsEmptyList reports whether v is a list with no elements.
func IsEmptyList(v Value) bool {
	l, ok := v.(List)

	return ok && len(l) == 0
}

// IsFalsy reports whether a section bound to v would be skipped: v is nil,
// [False], or an empty list.
func IsFalsy(v Value) bool {
	return v == nil || KindOf(v) == KindFalse || IsEmptyList(v)
}

// Take returns the value held by *v and leaves [Invalid] in its place.
func Take(v *Value) Value {
	out := *v
	*v = Invalid

	if out == nil {
		return Invalid
	}

	return out
}

func clone(v Value) Value {
	if v == nil {
		return Invalid
	}

	return v.Clone()
}

// lookup resolves key within v when v is an object.
func lookup(v Value, key string) (Value, bool) {
	o, ok := v.(*Object)
	if !ok {
		return nil, false
	}

	return o.Get(key)
}
