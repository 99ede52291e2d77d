package log

import (
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a record. It extends [slog.Level] with
// [LevelTrace], which the template engine uses to report each tag it renders.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level used when none is given or a name is unknown.
const DefaultLevel = LevelInfo

// named lists the named levels in ascending order.
var named = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// Levels yields the name of every named level, lowest first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range named {
			if !yield(n.name) {
				return
			}
		}
	}
}

// String returns the lowercase name of l. A level between two names is
// written relative to the nearest name below it, e.g. "info+2"; a level below
// trace is written relative to trace.
func (l Level) String() string {
	base := named[0]

	for _, n := range named {
		if n.level > l {
			break
		}

		base = n
	}

	switch d := int(l - base.level); {
	case d == 0:
		return base.name
	case d > 0:
		return base.name + "+" + strconv.Itoa(d)
	default:
		return base.name + strconv.Itoa(d)
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler]. It accepts the forms
// produced by [Level.String] in any case.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := parseLevel(string(text))
	if err != nil {
		return err
	}

	*l = v

	return nil
}

// ParseLevel returns the level named by s, or [DefaultLevel] if s names no
// level. Names are case-insensitive and may carry a signed offset, as in
// "debug+2" or "ERROR-1".
func ParseLevel(s string) Level {
	l, err := parseLevel(s)
	if err != nil {
		return DefaultLevel
	}

	return l
}

func parseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	offset := 0

	if i := strings.IndexAny(name, "+-"); i > 0 {
		n, err := strconv.Atoi(name[i:])
		if err != nil {
			return 0, fmt.Errorf("log level %q: bad offset: %w", s, err)
		}

		name, offset = name[:i], n
	}

	for _, n := range named {
		if n.name == name {
			return n.level + Level(offset), nil
		}
	}

	return 0, fmt.Errorf("unknown log level %q", s)
}

// Format selects the encoding of each record.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format used when none is given or a name is unknown.
const DefaultFormat = FormatJSON

// Formats yields the name of every format.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// ParseFormat returns the format named by s ("json" or "text"), or
// [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return DefaultFormat
	}
}
