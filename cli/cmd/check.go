package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stache/bind"
	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Check parses templates and reports errors. With data bound, it also warns
// about names that do not resolve.
type Check struct {
	Template []string `arg:"" help:"Template file(s) to check" type:"existingfile"`
	Strict   bool     `help:"Treat unresolved names as errors"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var s *session

	if files := dataFilesFrom(ctx); files != nil || len(bindingFrom(ctx).Lambda)+len(bindingFrom(ctx).SectionLambda) > 0 {
		if s, err = loadSession(ctx, nil); err != nil {
			return err
		}
	}

	out := streamsFrom(ctx).out

	var failed, unresolved int

	for _, path := range c.Template {
		text, err := readTemplate(ctx, path)
		if err != nil {
			return err
		}

		tmpl := mustache.New(text, mustache.WithLogger(log.Default()))
		if !tmpl.Valid() {
			failed++

			fmt.Fprintf(out, "%s: %s\n", path, tmpl.ErrorMessage())

			continue
		}

		if s != nil {
			unresolved += reportUnresolved(out, path, tmpl, s)
		}
	}

	log.DebugContext(ctx, "check complete",
		slog.Int("templates", len(c.Template)),
		slog.Int("invalid", failed),
		slog.Int("unresolved", unresolved),
	)

	if failed > 0 || (c.Strict && unresolved > 0) {
		return ErrCheckFailed.
			Wrapf("%d invalid, %d unresolved", failed, unresolved).
			With(
				slog.Int("invalid", failed),
				slog.Int("unresolved", unresolved),
			)
	}

	return nil
}

// reportUnresolved writes one line per reference in tmpl that the session
// cannot resolve and returns the number written.
func reportUnresolved(w io.Writer, path string, tmpl *mustache.Template, s *session) int {
	candidates := append(bind.Keys(s.lambdas), bind.Keys(s.data)...)

	n := 0

	for _, ref := range tmpl.Names() {
		if resolves(s, ref) {
			continue
		}

		n++

		fmt.Fprintf(w, "%s:%d: unresolved %s %q%s\n",
			path, ref.Offset, ref.Tag, ref.Name, suggest(ref.Name, candidates))
	}

	return n
}

// resolves reports whether ref names a value in the scope chain a render
// would build for it. A reference inside a body that cannot render counts as
// resolved: a normal section that is missing or falsy, or an inverted section
// that is truthy. Enclosing sections bound to a list are entered with their
// first element; inverted sections push nothing.
func resolves(s *session, ref mustache.Reference) bool {
	ctx := s.context()

	for _, sec := range ref.Enclose {
		v, ok := ctx.Get(sec.Name)
		falsy := !ok || mustache.IsFalsy(v)

		if sec.Tag == mustache.TagSectionBeginInverted {
			if !falsy {
				return true
			}

			continue
		}

		if falsy {
			return true
		}

		switch v := v.(type) {
		case *mustache.Object:
			ctx.Push(v)

		case mustache.List:
			ctx.Push(v[0])
		}
	}

	switch ref.Tag {
	case mustache.TagSectionBeginInverted:
		// A missing name is how an inverted section is meant to fire.
		return true

	case mustache.TagPartial:
		_, ok := ctx.GetPartial(ref.Name)

		return ok
	}

	_, ok := ctx.Get(ref.Name)

	return ok
}

// suggest returns a " (did you mean ...)" hint for name, or "".
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		// Try the last segment alone for dotted names.
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			matches = fuzzy.Find(name[i+1:], candidates)
		}
	}

	if len(matches) == 0 {
		return ""
	}

	best := make([]string, 0, 3)

	for _, m := range matches {
		if m.Str == name || slices.Contains(best, m.Str) {
			continue
		}

		best = append(best, fmt.Sprintf("%q", m.Str))

		if len(best) == cap(best) {
			break
		}
	}

	if len(best) == 0 {
		return ""
	}

	return " (did you mean " + strings.Join(best, " or ") + "?)"
}
