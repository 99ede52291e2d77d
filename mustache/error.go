package mustache

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values). Use [errors.Is] to classify an error
// returned by [Template.Err].
var (
	ErrUnclosedTag         = NewError("Unclosed tag")
	ErrInvalidSetDelimiter = NewError("Invalid set delimiter tag")
	ErrUnopenedSection     = NewError("Unopened section")
	ErrUnclosedSection     = NewError("Unclosed section")
	ErrLambdaVariable      = NewError(
		"Lambda with render argument is not allowed for regular variables",
	)
)

// noPos marks an error without a source offset.
const noPos = -1

// Error is a template error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg     string
	section string // quoted after msg when hasName is set
	hasName bool
	pos     int
	err     error
	attrs   []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg, pos: noPos}
}

// Error implements the error interface. The message has the form
//
//	<msg>[ "<section>"][ at <offset>][: <cause>]
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	if e.hasName {
		b.WriteString(` "`)
		b.WriteString(e.section)
		b.WriteByte('"')
	}

	if e.pos != noPos {
		b.WriteString(" at ")
		b.WriteString(strconv.Itoa(e.pos))
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same base message, so a
// positioned error matches its sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.msg == e.msg
}

// Pos returns the byte offset of the error in the template source, or -1.
func (e *Error) Pos() int { return e.pos }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	attrs = append(attrs, slog.String("error", e.msg))

	if e.hasName {
		attrs = append(attrs, slog.String("section", e.section))
	}

	if e.pos != noPos {
		attrs = append(attrs, slog.Int("offset", e.pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// At returns a copy of the error positioned at a byte offset.
func (e *Error) At(pos int) *Error {
	c := *e
	c.pos = pos

	return &c
}

// Section returns a copy of the error naming a section.
func (e *Error) Section(name string) *Error {
	c := *e
	c.section = name
	c.hasName = true

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}
