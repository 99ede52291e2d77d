package cmd

import (
	"context"
	"encoding"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config namespace undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	b, err := yaml.MarshalWithOptions(i.buildConfig(ctx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(confPath, b, 0o644); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildConfig collects the current value of every configurable flag, in
// declaration order, keyed by flag name.
func (i *Init) buildConfig(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	var entries yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if !configurable(flag) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			entries = append(entries, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return entries
}

// configurable reports whether flag belongs in a generated config file.
// Help and profiling flags only make sense on the command line.
func configurable(flag *kong.Flag) bool {
	if flag.Hidden {
		return false
	}

	return !slices.ContainsFunc([]string{"help", profile.Tag}, func(p string) bool {
		return strings.HasPrefix(flag.Name, p)
	})
}

// configValue converts a parsed flag value to the form written to the
// config file. Empty strings and lists are omitted.
func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case string:
		if v == "" {
			return nil
		}

	case []string:
		if len(v) == 0 {
			return nil
		}

	case time.Duration:
		return v.String()

	case encoding.TextMarshaler:
		if b, err := v.MarshalText(); err == nil {
			return string(b)
		}
	}

	return val
}
