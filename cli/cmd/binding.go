package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/stache/bind"
	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Binding holds the render inputs shared by every command: data documents,
// partial directories and lambdas.
type Binding struct {
	Data          []string `help:"Data file(s), YAML or JSON, or '-' for stdin"        placeholder:"FILE" short:"d"`
	Partials      []string `help:"Directories searched for partial templates"           placeholder:"DIR"  short:"I" type:"path"`
	Ext           string   `help:"Extension appended to partial names"                  default:".mustache"`
	Lambda        []string `help:"Lambda bound as NAME=EXPR; its result is rendered"    placeholder:"NAME=EXPR"`
	SectionLambda []string `help:"Section lambda bound as NAME=EXPR; result is verbatim" placeholder:"NAME=EXPR"`
}

type bindingKey struct{}

// WithBinding returns a new context.Context carrying b. The data files named
// by b are resolved as by [WithDataFiles].
func WithBinding(ctx context.Context, b *Binding) context.Context {
	ctx = WithDataFiles(ctx, b.Data)

	return context.WithValue(ctx, bindingKey{}, b)
}

func bindingFrom(ctx context.Context) *Binding {
	b, _ := ctx.Value(bindingKey{}).(*Binding)
	if b == nil {
		return &Binding{Ext: bind.DefaultExt}
	}

	return b
}

// session is the loaded form of a Binding.
type session struct {
	data    mustache.Value
	lambdas *mustache.Object
	dirs    []string
	ext     string
	files   DataFiles
	stdin   mustache.Value
}

// loadSession reads the data files and compiles the lambdas named in ctx.
// escape is what the lambdas call as escape(); nil means HTML escaping.
func loadSession(ctx context.Context, escape mustache.EscapeFunc) (*session, error) {
	b := bindingFrom(ctx)

	for _, path := range b.Data {
		if path == stdinSource {
			continue
		}

		if _, err := os.Stat(path); err != nil {
			return nil, ErrLoadData.Wrap(err).With(slog.String("file", path))
		}
	}

	lambdas, err := bind.Lambdas(b.Lambda, b.SectionLambda, escape, log.Default())
	if err != nil {
		return nil, err
	}

	s := &session{
		lambdas: lambdas,
		dirs:    bind.SearchPath(bind.DefaultPathEnv, b.Partials...),
		ext:     b.Ext,
		files:   dataFilesFrom(ctx),
	}

	if s.files != nil && s.files.HasStdin() {
		s.stdin, err = bind.LoadData(ctx, streamsFrom(ctx).in)
		if err != nil {
			return nil, ErrLoadData.Wrap(err).With(slog.String("file", stdinSource))
		}
	}

	if err := s.reload(ctx); err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "binding loaded",
		slog.Int("keys", len(bind.Keys(s.data))),
		slog.Int("lambdas", lambdas.Len()),
		slog.Any("partials", s.dirs),
	)

	return s, nil
}

// reload re-reads the regular data files. Stdin is read only once, by
// loadSession, and merged last.
func (s *session) reload(ctx context.Context) error {
	var data mustache.Value = mustache.NewObject()

	if s.files != nil {
		for _, path := range s.files.Paths() {
			v, err := loadFile(ctx, path)
			if err != nil {
				return err
			}

			data = bind.Merge(data, v)
		}
	}

	if s.stdin != nil {
		data = bind.Merge(data, s.stdin.Clone())
	}

	s.data = data

	return nil
}

func loadFile(ctx context.Context, path string) (mustache.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoadData.Wrap(err).With(slog.String("file", path))
	}
	defer f.Close()

	v, err := bind.LoadData(ctx, f)
	if err != nil {
		return nil, ErrLoadData.Wrap(err).With(slog.String("file", path))
	}

	return v, nil
}

// context returns a fresh render context over the session. Lambdas form the
// outermost scope so data can shadow them.
func (s *session) context() *bind.FileContext {
	return bind.NewFileContext(
		[]mustache.Value{s.lambdas, s.data},
		bind.WithDirs(s.dirs...),
		bind.WithExt(s.ext),
		bind.WithContextLogger(log.Default()),
	)
}

// watchPaths returns the files and directories whose changes affect a render
// of the session.
func (s *session) watchPaths() []string {
	var paths []string

	if s.files != nil {
		paths = append(paths, s.files.Paths()...)
	}

	return append(paths, s.dirs...)
}

// readTemplate reads the template named by path, or stdin for "-".
func readTemplate(ctx context.Context, path string) (string, error) {
	var r io.Reader

	if path == stdinSource {
		r = streamsFrom(ctx).in
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", ErrReadTemplate.Wrap(err).With(slog.String("file", path))
		}
		defer f.Close()

		r = f
	}

	var b strings.Builder
	if _, err := io.Copy(&b, r); err != nil {
		return "", ErrReadTemplate.Wrap(err).With(slog.String("file", path))
	}

	return b.String(), nil
}

// escapeFunc maps an --escape flag value to an escape function.
func escapeFunc(mode string) mustache.EscapeFunc {
	if mode == "none" {
		return func(s string) string { return s }
	}

	return mustache.EscapeHTML
}
