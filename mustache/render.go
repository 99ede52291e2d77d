package mustache

import (
	"log/slog"
	"strings"
)

// escapeMode selects how lambda output is escaped.
type escapeMode int

const (
	escapeOptional escapeMode = iota // caller of the Renderer decides
	escapeAlways
	escapeNever
)

// renderer holds the state of one walk over a template tree.
type renderer struct {
	t      *Template
	ctx    Context
	delims Delims
	emit   func(string)
	err    *Error
}

// walk renders t against ctx starting from delims and returns the first
// render error.
func (t *Template) walk(ctx Context, delims Delims, emit func(string)) *Error {
	r := &renderer{t: t, ctx: ctx, delims: delims, emit: emit}

	t.root.walkChildren(r.component)

	return r.err
}

func (r *renderer) component(c *component) walkControl {
	switch c.tag {
	case TagText:
		r.emit(c.text)

	case TagVariable, TagUnescapedVariable:
		if v, ok := r.ctx.Get(c.name); ok && v != nil {
			if !r.variable(v, c.tag == TagVariable) {
				return walkStop
			}
		}

	case TagSectionBegin:
		v, ok := r.ctx.Get(c.name)
		if !ok || v == nil {
			return walkSkip
		}

		switch v.(type) {
		case Lambda, LambdaRender:
			if !r.lambda(v, escapeOptional, c.section, r.delims) {
				return walkStop
			}

			return walkSkip
		}

		if IsFalsy(v) {
			return walkSkip
		}

		return r.section(c, v)

	case TagSectionBeginInverted:
		if v, ok := r.ctx.Get(c.name); !ok || IsFalsy(v) {
			return r.section(c, nil)
		}

		return walkSkip

	case TagPartial:
		return r.partial(c)

	case TagSetDelimiter:
		r.delims = c.delims
	}

	return walkContinue
}

// variable emits a resolved variable. It returns false on a render error.
func (r *renderer) variable(v Value, escaped bool) bool {
	switch v := v.(type) {
	case String:
		if escaped {
			r.emit(r.t.escape(string(v)))
		} else {
			r.emit(string(v))
		}

	case Lambda:
		mode := escapeNever
		if escaped {
			mode = escapeAlways
		}

		return r.lambda(v, mode, "", DefaultDelims)

	case LambdaRender:
		r.err = ErrLambdaVariable

		return false
	}

	return true
}

// section renders the children of c once per element of a non-empty list,
// or once with v pushed. A nil v renders the children with no push.
func (r *renderer) section(c *component, v Value) walkControl {
	if l, ok := v.(List); ok && len(l) > 0 {
		for _, item := range l {
			if r.scoped(c, item) == walkStop {
				return walkStop
			}
		}

		return walkSkip
	}

	if v == nil {
		if c.walkChildren(r.component) == walkStop {
			return walkStop
		}

		return walkSkip
	}

	if r.scoped(c, v) == walkStop {
		return walkStop
	}

	return walkSkip
}

func (r *renderer) scoped(c *component, v Value) walkControl {
	r.ctx.Push(v)
	defer r.ctx.Pop()

	return c.walkChildren(r.component)
}

// lambda invokes a lambda bound to a tag and emits its output. Text produced
// by a [Lambda] is parsed from delims. It returns false on a render error.
func (r *renderer) lambda(v Value, mode escapeMode, text string, delims Delims) bool {
	h := &handle{r: r, mode: mode, delims: delims}

	switch fn := v.(type) {
	case Lambda:
		if fn != nil {
			r.emit(h.Render(fn(text)))
		}

	case LambdaRender:
		if fn != nil {
			r.emit(fn(text, h))
		}
	}

	return r.err == nil
}

func (r *renderer) partial(c *component) walkControl {
	v, ok := r.ctx.GetPartial(c.name)
	if !ok {
		return walkContinue
	}

	var text string

	switch v := v.(type) {
	case Partial:
		if v == nil {
			return walkContinue
		}

		text = v()

	case String:
		text = string(v)

	default:
		return walkContinue
	}

	r.t.logger.Trace("partial resolved",
		slog.String("name", c.name),
		slog.Int("offset", c.pos),
	)

	if err := r.nested(text, r.delims, r.emit); err != nil {
		r.err = err

		return walkStop
	}

	return walkContinue
}

// nested parses text from delims and renders it in the current context.
// The nested walk tracks its own copy of the delimiters.
func (r *renderer) nested(text string, delims Delims, emit func(string)) *Error {
	sub := r.t.sub(text, delims)
	if err := sub.err.Load(); err != nil {
		return err
	}

	return sub.walk(r.ctx, delims, emit)
}

// handle is the [Renderer] passed to lambdas.
type handle struct {
	r      *renderer
	mode   escapeMode
	delims Delims
}

// Render implements [Renderer].
func (h *handle) Render(text string) string {
	return h.RenderEscaped(text, false)
}

// RenderEscaped implements [Renderer]. After a render error it returns "".
func (h *handle) RenderEscaped(text string, escaped bool) string {
	if h.r.err != nil {
		return ""
	}

	var b strings.Builder

	if err := h.r.nested(text, h.delims, func(s string) { b.WriteString(s) }); err != nil {
		h.r.err = err

		return ""
	}

	switch h.mode {
	case escapeAlways:
		escaped = true

	case escapeNever:
		escaped = false
	}

	if escaped {
		return h.r.t.escape(b.String())
	}

	return b.String()
}
