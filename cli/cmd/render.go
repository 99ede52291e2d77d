package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ardnew/stache/bind"
	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Render renders a template against the bound data.
type Render struct {
	Template string        `arg:"" default:"-" help:"Template file or '-' for stdin"`
	Output   string        `                   help:"Write output to file instead of stdout" short:"o" type:"path"`
	Escape   string        `default:"html"     enum:"html,none" help:"Escaping applied to {{name}} tags (${enum})"`
	Watch    bool          `                   help:"Render again when the template, data or partials change" short:"w"`
	Debounce time.Duration `default:"100ms"    help:"Quiet period before a watched change is rendered"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Watch && r.Template == stdinSource {
		return ErrWatchStdin
	}

	s, err := loadSession(ctx, escapeFunc(r.Escape))
	if err != nil {
		return err
	}

	if err := r.render(ctx, s); err != nil {
		return err
	}

	if !r.Watch {
		return nil
	}

	paths := append([]string{r.Template}, s.watchPaths()...)

	return bind.Watch(ctx, paths, func(ctx context.Context) error {
		if err := s.reload(ctx); err != nil {
			return err
		}

		return r.render(ctx, s)
	},
		bind.WithDebounce(r.Debounce),
		bind.WithWatchLogger(log.Default()),
	)
}

// render reads, parses and renders the template once.
func (r *Render) render(ctx context.Context, s *session) error {
	text, err := readTemplate(ctx, r.Template)
	if err != nil {
		return err
	}

	tmpl := mustache.New(text,
		mustache.WithEscape(escapeFunc(r.Escape)),
		mustache.WithLogger(log.Default()),
	)
	if !tmpl.Valid() {
		return ErrParseTemplate.Wrap(tmpl.Err()).With(slog.String("file", r.Template))
	}

	start := time.Now()

	if r.Output == "" {
		err = renderTo(streamsFrom(ctx).out, tmpl, s)
	} else {
		err = renderFile(r.Output, tmpl, s)
	}

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "rendered",
		slog.String("template", r.Template),
		slog.String("output", r.Output),
		slog.Duration("elapsed", time.Since(start)),
	)

	return nil
}

// renderTo streams the output of tmpl to w.
func renderTo(w io.Writer, tmpl *mustache.Template, s *session) error {
	bw := bufio.NewWriter(w)

	var werr error

	tmpl.RenderContextFunc(s.context(), func(out string) {
		if werr == nil {
			_, werr = bw.WriteString(out)
		}
	})

	if werr == nil {
		werr = bw.Flush()
	}

	if werr != nil {
		return ErrWriteOutput.Wrap(werr)
	}

	if err := tmpl.Err(); err != nil {
		return ErrRender.Wrap(err)
	}

	return nil
}

// renderFile renders tmpl into a temporary file next to path and renames it
// into place, so path never holds partial output.
func renderFile(path string, tmpl *mustache.Template, s *session) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", path))
	}

	tmp := f.Name()
	defer os.Remove(tmp)

	err = renderTo(f, tmpl, s)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = ErrWriteOutput.Wrap(cerr)
	}

	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", path))
	}

	return nil
}
