// Package cli contains the command line interface for stache.
//
// # Usage
//
//	stache [global flags] <command> [flags]
//
// Rendering is the default command, so a bare template path renders it:
//
//	stache -d data.yaml page.mustache
//	stache render -d data.yaml -I partials -o page.html page.mustache --watch
//	stache check -d data.yaml --strict *.mustache
//	stache tree --format json page.mustache
//	stache repl -d data.yaml
//
// # Data Binding Options
//
//   - --data, -d: YAML or JSON data file, or '-' for stdin (repeatable;
//     documents are merged in order, stdin last)
//   - --partials, -I: directory searched for partial templates (repeatable;
//     searched before the STACHE_PATH list)
//   - --ext: extension appended to partial names (default .mustache)
//   - --lambda NAME=EXPR: bind an expression as a lambda whose result is
//     rendered as a template
//   - --section-lambda NAME=EXPR: bind an expression as a lambda whose
//     result is emitted verbatim
//
// # Configuration
//
// Flag defaults are read from a YAML file, config.yaml, in the user
// configuration directory. Keys are flag names; nested mappings join their
// keys with '-'. A JSON file of the same name with a .json suffix is also
// consulted, and every flag can be set with a STACHE_ environment variable
// (e.g. STACHE_LOG_LEVEL). Run "stache init" to write the current flag values
// to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o stache .
//
// Flags:
//   - --pprof-mode: Enable profiling (block, clock, cpu, goroutine, mem,
//     mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/stache/pprof)
package cli
