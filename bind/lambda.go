package bind

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// lambdaEnv is the environment visible to lambda expressions.
type lambdaEnv struct {
	Text   string              `expr:"text"`
	Render func(string) string `expr:"render"`
	Escape func(string) string `expr:"escape"`
}

// Lambda is a named lambda compiled from an expression.
type Lambda struct {
	Name    string
	Source  string
	Section bool

	// Escape is bound to escape() in the expression; nil means
	// [mustache.EscapeHTML].
	Escape mustache.EscapeFunc

	program *vm.Program
	logger  log.Logger
}

// ParseLambda splits a NAME=EXPR definition.
func ParseLambda(def string) (name, source string, err error) {
	name, source, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)

	if !ok || name == "" || strings.TrimSpace(source) == "" {
		return "", "", ErrLambdaSyntax.With(slog.String("definition", def))
	}

	return name, source, nil
}

func compile(name, source string, section bool, logger log.Logger) (*Lambda, error) {
	program, err := expr.Compile(
		source,
		expr.Env(lambdaEnv{}),
		expr.AsKind(reflect.String),
	)
	if err != nil {
		return nil, ErrLambdaCompile.Wrap(err).
			With(slog.String("name", name), slog.String("source", source))
	}

	return &Lambda{
		Name:    name,
		Source:  source,
		Section: section,
		program: program,
		logger:  logger,
	}, nil
}

// CompileLambda compiles source into a lambda whose result is parsed and
// rendered as template text. Within source, render(s) returns s unchanged,
// since the result is rendered anyway.
func CompileLambda(name, source string, logger log.Logger) (*Lambda, error) {
	return compile(name, source, false, logger)
}

// CompileSectionLambda compiles source into a lambda that is only valid in
// section position. Its result is emitted verbatim; render(s) renders s
// against the current context.
func CompileSectionLambda(name, source string, logger log.Logger) (*Lambda, error) {
	return compile(name, source, true, logger)
}

// Value returns the lambda as a [mustache.Lambda] or [mustache.LambdaRender].
func (l *Lambda) Value() mustache.Value {
	escape := l.Escape
	if escape == nil {
		escape = mustache.EscapeHTML
	}

	if l.Section {
		return mustache.LambdaRender(func(text string, r mustache.Renderer) string {
			return l.run(lambdaEnv{
				Text:   text,
				Render: r.Render,
				Escape: escape,
			})
		})
	}

	return mustache.Lambda(func(text string) string {
		return l.run(lambdaEnv{
			Text:   text,
			Render: func(s string) string { return s },
			Escape: escape,
		})
	})
}

// run evaluates the program. Evaluation errors are logged and produce "".
func (l *Lambda) run(env lambdaEnv) string {
	out, err := expr.Run(l.program, env)
	if err != nil {
		l.logger.Warn("lambda failed",
			slog.String("name", l.Name),
			slog.String("error", err.Error()),
		)

		return ""
	}

	s, ok := out.(string)
	if !ok {
		l.logger.Warn("lambda failed",
			slog.Any("error", ErrLambdaResult.With(slog.String("name", l.Name))),
		)

		return ""
	}

	return s
}

// Lambdas compiles each NAME=EXPR definition in defs and returns them bound
// in a single object, suitable as the outermost scope of a render. escape is
// the function the expressions call as escape(); nil means
// [mustache.EscapeHTML].
func Lambdas(
	defs, sectionDefs []string,
	escape mustache.EscapeFunc,
	logger log.Logger,
) (*mustache.Object, error) {
	o := mustache.NewObject()

	add := func(def string, section bool) error {
		name, source, err := ParseLambda(def)
		if err != nil {
			return err
		}

		l, err := compile(name, source, section, logger)
		if err != nil {
			return err
		}

		l.Escape = escape

		o.Set(name, l.Value())

		return nil
	}

	for _, def := range defs {
		if err := add(def, false); err != nil {
			return nil, err
		}
	}

	for _, def := range sectionDefs {
		if err := add(def, true); err != nil {
			return nil, err
		}
	}

	return o, nil
}
