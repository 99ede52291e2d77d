// Package log is the structured logger used throughout stache, a thin layer
// over [log/slog] that adds a trace level, named time layouts and colorized
// output.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template loaded", slog.String("path", path))
//	logger.Error("render failed", slog.Any("error", err))
//
// Methods take [slog.Attr] values rather than alternating keys and values.
// The zero [Logger] discards everything, so library types such as a template
// can hold one that callers never set.
//
// # Configuration
//
// A Logger is immutable. Options are given to [Make], or to [Logger.Wrap] to
// derive a changed copy:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package-level functions write through a default logger that [Config]
// replaces atomically, so the command line can reconfigure logging while
// watchers and renders are running.
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn] and [LevelError].
// Trace records each tag as it is rendered. Levels parse from and print as
// lowercase names, with offsets such as "info+2" for levels in between.
//
// # Output
//
// [FormatJSON] (the default) or [FormatText]. [WithPretty] renders either
// with lipgloss colors: text loses its quoting and JSON is indented.
// [WithTimeLayout] accepts any layout name from package [time], or "none" to
// omit timestamps.
package log
