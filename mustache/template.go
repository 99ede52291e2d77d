package mustache

import (
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/ardnew/stache/log"
)

// Template is a parsed Mustache template.
//
// A Template may be rendered concurrently from multiple goroutines provided
// each render uses its own [Context] and the bound data is not mutated.
type Template struct {
	root   *component
	delims Delims
	escape EscapeFunc
	logger log.Logger
	err    atomic.Pointer[Error]
}

// Option configures a [Template].
type Option func(*Template)

// WithEscape sets the function applied to escaped variables.
// A nil function selects [EscapeHTML].
func WithEscape(fn EscapeFunc) Option {
	return func(t *Template) {
		if fn == nil {
			fn = EscapeHTML
		}

		t.escape = fn
	}
}

// WithDelims sets the delimiters in effect at the start of the template.
// Invalid delimiters are ignored.
func WithDelims(d Delims) Option {
	return func(t *Template) {
		if d.Valid() {
			t.delims = d
		}
	}
}

// WithLogger sets the logger that receives parse and render diagnostics.
func WithLogger(l log.Logger) Option {
	return func(t *Template) { t.logger = l }
}

// New parses text into a template. Parsing stops at the first error, which
// is reported by [Template.Valid] and [Template.Err].
func New(text string, opts ...Option) *Template {
	t := &Template{
		delims: DefaultDelims,
		escape: EscapeHTML,
	}

	for _, opt := range opts {
		opt(t)
	}

	root, err := parse(text, t.delims)
	t.root = root

	if err != nil {
		t.fail(err)

		return t
	}

	t.logger.Trace("parse complete",
		slog.Int("length", len(text)),
		slog.Int("nodes", len(root.children)),
	)

	return t
}

// sub parses text as a nested template sharing the escape function and
// logger of t.
func (t *Template) sub(text string, delims Delims) *Template {
	return New(text, WithDelims(delims), WithEscape(t.escape), WithLogger(t.logger))
}

// fail latches the first error.
func (t *Template) fail(err *Error) {
	if t.err.CompareAndSwap(nil, err) {
		t.logger.Debug("template invalid", slog.Any("error", err))
	}
}

// Valid reports whether no parse or render error has occurred.
func (t *Template) Valid() bool { return t.err.Load() == nil }

// Err returns the first parse or render error, or nil.
func (t *Template) Err() error {
	if err := t.err.Load(); err != nil {
		return err
	}

	return nil
}

// ErrorMessage returns the text of the first error, or "" if the template
// is valid.
func (t *Template) ErrorMessage() string {
	if err := t.err.Load(); err != nil {
		return err.Error()
	}

	return ""
}

// Delims returns the delimiters in effect at the start of the template.
func (t *Template) Delims() Delims { return t.delims }

// SetEscape replaces the function applied to escaped variables.
// A nil function restores [EscapeHTML].
func (t *Template) SetEscape(fn EscapeFunc) { WithEscape(fn)(t) }

// Render renders the template against data and returns the output.
// An invalid template renders as "".
func (t *Template) Render(data Value) string {
	var b strings.Builder

	t.RenderFunc(data, func(s string) { b.WriteString(s) })

	return b.String()
}

// RenderFunc renders the template against data, passing output to emit in
// order as it is produced.
func (t *Template) RenderFunc(data Value, emit func(string)) {
	t.RenderContextFunc(NewStack(data), emit)
}

// RenderTo renders the template against data into w. It returns the first
// write error, or the render error, if any. Output written before an error
// is not retracted.
func (t *Template) RenderTo(w io.Writer, data Value) error {
	var werr error

	t.RenderFunc(data, func(s string) {
		if werr == nil {
			_, werr = io.WriteString(w, s)
		}
	})

	if werr != nil {
		return werr
	}

	return t.Err()
}

// RenderContext renders the template against ctx and returns the output.
func (t *Template) RenderContext(ctx Context) string {
	var b strings.Builder

	t.RenderContextFunc(ctx, func(s string) { b.WriteString(s) })

	return b.String()
}

// RenderContextFunc renders the template against ctx, passing output to emit.
// Rendering an invalid template is a no-op. A render error latches the
// template invalid.
func (t *Template) RenderContextFunc(ctx Context, emit func(string)) {
	if !t.Valid() {
		return
	}

	t.logger.Trace("render start", slog.String("open", t.delims.Open))

	if err := t.walk(ctx, t.delims, emit); err != nil {
		t.logger.Trace("render error", slog.Any("error", err))
		t.fail(err)
	}
}
