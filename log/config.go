package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// DefaultTimeLayout is the timestamp layout of a new logger.
const DefaultTimeLayout = time.RFC3339

const (
	DefaultCaller = false
	DefaultPretty = true
)

// config is the immutable configuration of a Logger. Every Logger owns its
// copy; options apply to a copy before the handler is built.
type config struct {
	output io.Writer
	layout string // empty omits timestamps
	level  Level
	format Format
	caller bool
	pretty bool
}

func defaults(w io.Writer) config {
	if w == nil {
		w = io.Discard
	}

	return config{
		output: w,
		layout: DefaultTimeLayout,
		level:  DefaultLevel,
		format: DefaultFormat,
		caller: DefaultCaller,
		pretty: DefaultPretty,
	}
}

// Option changes one setting of a [Logger]'s configuration.
type Option func(*config)

func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithOutput sets the destination of records. A nil writer discards them.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option { return func(c *config) { c.level = level } }

// WithFormat sets the record encoding.
func WithFormat(format Format) Option { return func(c *config) { c.format = format } }

// WithCaller includes the source position of each log call.
func WithCaller(enable bool) Option { return func(c *config) { c.caller = enable } }

// WithPretty colorizes output: text records lose their quoting and JSON
// records are indented.
func WithPretty(enable bool) Option { return func(c *config) { c.pretty = enable } }

// WithTimeLayout sets the timestamp layout.
//
// Named layouts from package [time] are recognized case-insensitively and
// without punctuation ("RFC3339", "rfc-3339-nano", "Kitchen"), along with the
// short names "ms", "us" and "ns" for the Stamp variants. Any other string is
// used verbatim as a [time.Time.Format] layout. An empty layout, or "none",
// omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.layout = resolveLayout(layout) }
}

var namedLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
	"none":        "",
}

func resolveLayout(layout string) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		default:
			return -1
		}
	}, layout)

	if key == "" {
		return ""
	}

	if std, ok := namedLayouts[key]; ok {
		return std
	}

	return layout
}

// replaceAttr formats the built-in time and level attributes.
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			return a
		}

		if c.layout == "" {
			return slog.Attr{}
		}

		return slog.String(a.Key, t.Format(c.layout))

	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(a.Key, strings.ToUpper(Level(level).String()))
		}
	}

	return a
}

// handler builds the slog.Handler described by c.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch c.format {
	case FormatJSON:
		if c.pretty {
			return newPrettyJSONHandler(c.output, opts)
		}

		return slog.NewJSONHandler(c.output, opts)

	case FormatText:
		if c.pretty {
			return newPrettyTextHandler(c.output, opts)
		}

		return slog.NewTextHandler(c.output, opts)

	default:
		return slog.DiscardHandler
	}
}
