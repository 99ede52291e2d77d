// Package cmd implements the stache subcommands: render, check, tree, repl,
// init and version.
//
// Commands share a [Binding] of data files, partial directories and lambdas,
// carried in the [context.Context] passed to each Run method together with
// the [kong.Context] and the I/O streams.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
