package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stache/cli/cmd"
	"github.com/ardnew/stache/pkg"
)

// CLI is the top-level command-line interface for stache. Rendering is the
// default command, so "stache page.mustache" renders page.mustache.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Bind cmd.Binding `embed:"" group:"bind"`

	Render  cmd.Render  `cmd:"" default:"withargs" help:"Render a template"`
	Check   cmd.Check   `cmd:""                    help:"Check templates for errors and unresolved names"`
	Tree    cmd.Tree    `cmd:""                    help:"Print the parse tree of a template"`
	Repl    cmd.Repl    `cmd:""                    help:"Render templates interactively"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// groups lists the flag groups in the order help shows them.
func (c *CLI) groups() []kong.Group {
	return []kong.Group{
		c.Log.group(),
		c.Pprof.group(),
		{Key: "bind", Title: "Data binding options"},
	}
}

// options returns the kong configuration for c. Flags are read from the
// command line first, then STACHE_* environment variables, then the JSON and
// YAML config files under the config directory.
func (c *CLI) options(ctx context.Context, exit func(int)) []kong.Option {
	conf := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: conf,
		cmd.CacheIdentifier:  cacheDir(),
	}

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(c.groups()),
		kong.DefaultEnvars(pkg.EnvPrefix()),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, conf+".json"),
		kong.Configuration(resolve(ctx), conf),
		vars.CloneWith(c.Log.vars()).CloneWith(c.Pprof.vars()),
	}
}

// Run parses args and runs the selected command. exit is called by kong for
// --help and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logger flags take effect before kong reports any parse error, wherever
	// they appear on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithBinding(ctx, &cli.Bind)

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
