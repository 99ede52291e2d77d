package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

type groupValue struct{}

func (groupValue) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "Unclosed tag"),
		slog.Int("offset", 4),
	)
}

func TestPrettyText_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout("none"),
	).With(slog.String("template", "t.mustache"))

	logger.Warn("render failed", slog.Any("err", groupValue{}))

	out := buf.String()
	for _, want := range []string{
		"level=warn",
		"msg=render failed",
		"template=t.mustache",
		"err.error=Unclosed tag",
		"err.offset=4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestPrettyJSON_NestedGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true), WithTimeLayout("none"))
	logger.Info("parsed", slog.Any("err", groupValue{}), slog.Bool("ok", false))

	out := buf.String()
	for _, want := range []string{
		`"level": info`,
		`"msg": "parsed"`,
		`"err": {`,
		`"offset": 4`,
		`"ok": false`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
