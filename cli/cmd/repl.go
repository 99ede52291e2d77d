package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/stache/cli/cmd/repl"
	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Repl starts an interactive session that renders each line as a template
// against the bound data.
type Repl struct {
	Escape string `default:"html" enum:"html,none" help:"Escaping applied to {{name}} tags (${enum})"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if files := dataFilesFrom(ctx); files != nil && files.HasStdin() {
		return ErrReplStdin
	}

	s, err := loadSession(ctx, escapeFunc(r.Escape))
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	if cacheDir == "" {
		cacheDir = os.TempDir()
	} else if err := os.MkdirAll(cacheDir, 0o700); err != nil {
		log.WarnContext(ctx, "could not create cache directory",
			slog.String("path", cacheDir),
			slog.Any("error", err),
		)
	}

	return repl.Run(ctx, replSession{s}, cacheDir, log.Default(),
		mustache.WithEscape(escapeFunc(r.Escape)))
}

// replSession exposes a session to the REPL.
type replSession struct{ s *session }

func (r replSession) Scopes() []mustache.Value {
	return []mustache.Value{r.s.lambdas, r.s.data}
}

func (r replSession) Context() mustache.Context { return r.s.context() }

func (r replSession) Reload(ctx context.Context) error { return r.s.reload(ctx) }
