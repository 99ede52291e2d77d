package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// plain returns a logger writing undecorated JSON without timestamps to buf.
func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	}, opts...)...)
}

func TestMake_Defaults(t *testing.T) {
	logger := Make(io.Discard)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.cfg.caller != DefaultCaller || logger.cfg.pretty != DefaultPretty {
		t.Errorf("cfg = %+v", logger.cfg)
	}
}

func TestLogger_Output(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf).Info("template loaded", slog.String("path", "page.mustache"))

	want := `{"level":"INFO","msg":"template loaded","path":"page.mustache"}` + "\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		min   Level
		log   func(Logger, string, ...slog.Attr)
		level string
		want  bool
	}{
		{LevelInfo, Logger.Trace, "TRACE", false},
		{LevelInfo, Logger.Debug, "DEBUG", false},
		{LevelInfo, Logger.Info, "INFO", true},
		{LevelWarn, Logger.Info, "INFO", false},
		{LevelWarn, Logger.Warn, "WARN", true},
		{LevelWarn, Logger.Error, "ERROR", true},
		{LevelTrace, Logger.Trace, "TRACE", true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		tt.log(plain(&buf, WithLevel(tt.min)), "msg")

		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("%s at min %v: wrote %v, want %v", tt.level, tt.min, got, tt.want)
		}

		if tt.want && !strings.Contains(buf.String(), `"level":"`+tt.level+`"`) {
			t.Errorf("%s record = %s", tt.level, buf.String())
		}
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	type key struct{}

	ctx := context.WithValue(context.Background(), key{}, "v")

	var buf bytes.Buffer

	logger := plain(&buf, WithLevel(LevelTrace))

	for _, log := range []func(context.Context, string, ...slog.Attr){
		logger.TraceContext,
		logger.DebugContext,
		logger.InfoContext,
		logger.WarnContext,
		logger.ErrorContext,
	} {
		log(ctx, "ctx", slog.Int("n", 1))
	}

	if n := strings.Count(buf.String(), `"msg":"ctx","n":1`); n != 5 {
		t.Errorf("wrote %d records, want 5:\n%s", n, buf.String())
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("source does not name the calling file: %s", buf.String())
	}

	buf.Reset()
	plain(&buf, WithCaller(false)).Info("here")

	if strings.Contains(buf.String(), `"source"`) {
		t.Errorf("source included when disabled: %s", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf)
	logger := base.With(slog.String("template", "a.mustache"))

	logger.Info("one")
	base.Info("two")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}

	if !strings.Contains(lines[0], `"template":"a.mustache"`) {
		t.Errorf("With attrs missing: %s", lines[0])
	}

	if strings.Contains(lines[1], "template") {
		t.Errorf("With modified its receiver: %s", lines[1])
	}

	if same := base.With(); same.Logger != base.Logger {
		t.Error("With() without attrs returned a new logger")
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf).With(slog.String("dropped", "yes"))
	wrapped := base.Wrap(WithLevel(LevelDebug), WithFormat(FormatText))

	if wrapped.Level() != LevelDebug || wrapped.Format() != FormatText {
		t.Errorf("wrapped = (%v, %v)", wrapped.Level(), wrapped.Format())
	}

	if base.Level() != LevelInfo || base.Format() != FormatJSON {
		t.Error("Wrap modified its receiver")
	}

	wrapped.Debug("text record")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || strings.Contains(out, "dropped") {
		t.Errorf("wrapped output = %q", out)
	}

	var other bytes.Buffer

	wrapped.Wrap(WithOutput(&other)).Info("moved")

	if !strings.Contains(other.String(), "msg=moved") || strings.Contains(buf.String(), "moved") {
		t.Errorf("WithOutput did not redirect: %q / %q", other.String(), buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Trace("x")
	logger.Info("x", slog.Int("n", 1))
	logger.ErrorContext(context.Background(), "x")

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero logger does not report defaults")
	}

	if w := logger.With(slog.Int("n", 1)); w.Logger != nil {
		t.Error("With on the zero logger built a handler")
	}

	w := logger.Wrap(WithLevel(LevelDebug))
	if w.Logger == nil || w.Level() != LevelDebug {
		t.Errorf("Wrap on the zero logger = %+v", w)
	}

	w.Debug("discarded")
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf)

	var wg sync.WaitGroup

	for g := range 8 {
		wg.Go(func() {
			l := logger.With(slog.Int("g", g))
			for range 50 {
				l.Info("tick")
			}
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 400 {
		t.Errorf("wrote %d records, want 400", n)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := Make(io.Discard, WithPretty(false))

	for b.Loop() {
		logger.Info("render", slog.String("template", "page.mustache"), slog.Int("bytes", 512))
	}
}

func BenchmarkLogger_Info_Pretty(b *testing.B) {
	logger := Make(io.Discard, WithPretty(true))

	for b.Loop() {
		logger.Info("render", slog.String("template", "page.mustache"), slog.Int("bytes", 512))
	}
}

func BenchmarkLogger_Trace_Filtered(b *testing.B) {
	logger := Make(io.Discard)

	for b.Loop() {
		logger.Trace("tag", slog.String("name", "user.name"))
	}
}
