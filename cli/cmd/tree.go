package cmd

import (
	"context"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/mustache"
)

// Tree prints the parse tree of a template.
type Tree struct {
	Template string `arg:"" default:"-" help:"Template file or '-' for stdin"`
	Format   string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})" short:"f"`
	Names    bool   `help:"Print the names referenced by the template instead of the tree" short:"n"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := readTemplate(ctx, t.Template)
	if err != nil {
		return err
	}

	tmpl := mustache.New(text)
	if !tmpl.Valid() {
		return ErrParseTemplate.Wrap(tmpl.Err()).With(slog.String("file", t.Template))
	}

	var v any = tmpl.Tree()
	if t.Names {
		v = tmpl.Names()
	}

	var b []byte

	switch t.Format {
	case "json":
		b, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		b = append(b, '\n')

	default:
		b, err = yaml.MarshalContext(ctx, v)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	if _, err := streamsFrom(ctx).out.Write(b); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
