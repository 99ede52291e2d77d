package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
)

// Styles used by the pretty handlers. The renderer degrades to plain text
// when the output is not a terminal.
var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	spanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	levelStyle = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Faint(true),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// renderLevel styles the lowercase name of level.
func renderLevel(level slog.Level) string {
	l := Level(level)

	style, ok := levelStyle[l]
	if !ok {
		switch {
		case l >= LevelError:
			style = levelStyle[LevelError]
		case l >= LevelWarn:
			style = levelStyle[LevelWarn]
		case l >= LevelInfo:
			style = levelStyle[LevelInfo]
		default:
			style = levelStyle[LevelDebug]
		}
	}

	return style.Render(l.String())
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []slog.Attr
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, "", h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	h.writeKey(buf, "", slog.LevelKey)
	buf.WriteString(renderLevel(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeAttr(
				buf, "",
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)),
			)
		}
	}

	h.writeAttr(buf, "", slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		h.writeAttr(buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h

	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// replace applies the configured ReplaceAttr to a built-in attribute.
func (h *prettyTextHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, prefix, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(keyStyle.Render(prefix + key))
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, inner, g)
		}

		return
	}

	h.writeKey(buf, prefix, a.Key)
	buf.WriteString(renderValue(a.Value))
}

// renderValue styles v according to its kind.
func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return spanStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().String())

	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			return renderLevel(a)
		case error:
			return falseStyle.Render(a.Error())
		}

		return stringStyle.Render(v.String())

	default:
		return stringStyle.Render(v.String())
	}
}

// prettyJSONHandler writes each record as an indented, colorized object.
type prettyJSONHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []slog.Attr
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	first := true
	if !r.Time.IsZero() {
		h.writeField(
			buf, 1, slog.TimeKey,
			timeStyle.Render(quote(r.Time.Format("2006-01-02T15:04:05Z07:00"))),
			&first,
		)
	}

	h.writeField(buf, 1, slog.LevelKey, renderLevel(r.Level), &first)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeField(
				buf, 1, slog.SourceKey,
				stringStyle.Render(quote(fmt.Sprintf("%s:%d", src.File, src.Line))),
				&first,
			)
		}
	}

	h.writeField(buf, 1, slog.MessageKey, stringStyle.Render(quote(r.Message)), &first)

	for _, a := range h.attrs {
		h.writeAttr(buf, 1, a, &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}

		h.writeAttr(buf, 1, a, &first)

		return true
	})

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h

	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	depth int,
	key, value string,
	first *bool,
) {
	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString(keyStyle.Render(quote(key)))
	buf.WriteString(": ")
	buf.WriteString(value)
}

func (h *prettyJSONHandler) writeAttr(
	buf *bytes.Buffer,
	depth int,
	a slog.Attr,
	first *bool,
) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() != slog.KindGroup {
		h.writeField(buf, depth, a.Key, renderJSONValue(a.Value), first)

		return
	}

	group := a.Value.Group()
	if len(group) == 0 {
		return
	}

	if a.Key == "" {
		for _, g := range group {
			h.writeAttr(buf, depth, g, first)
		}

		return
	}

	var inner bytes.Buffer

	nested := true
	for _, g := range group {
		h.writeAttr(&inner, depth+1, g, &nested)
	}

	h.writeField(
		buf, depth, a.Key,
		"{\n"+inner.String()+"\n"+strings.Repeat("  ", depth)+"}",
		first,
	)
}

// renderJSONValue encodes v as a styled JSON literal.
func renderJSONValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(quote(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return numberStyle.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return spanStyle.Render(quote(v.Duration().String()))

	case slog.KindTime:
		return timeStyle.Render(quote(v.Time().Format("2006-01-02T15:04:05Z07:00")))

	case slog.KindAny:
		switch a := v.Any().(type) {
		case nil:
			return keyStyle.Render("null")
		case slog.Level:
			return renderLevel(a)
		case error:
			return falseStyle.Render(quote(a.Error()))
		}

		b, err := json.Marshal(v.Any())
		if err != nil {
			return stringStyle.Render(quote(fmt.Sprint(v.Any())))
		}

		return stringStyle.Render(string(b))

	default:
		return stringStyle.Render(quote(v.String()))
	}
}

func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}

	return string(b)
}
