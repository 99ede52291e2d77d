package bind

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/stache/log"
)

// DefaultDebounce is the quiet period [Watch] waits for after a change.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures [Watch].
type WatchOption func(*watchConfig)

type watchConfig struct {
	delay  time.Duration
	logger log.Logger
}

// WithDebounce sets the quiet period after the last change before the
// callback runs.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithWatchLogger sets the logger for change notifications and callback
// errors.
func WithWatchLogger(l log.Logger) WatchOption {
	return func(c *watchConfig) { c.logger = l }
}

// Watch calls fn each time one of paths changes, once the changes have been
// quiet for the debounce period. Directories are watched for changes to any
// file they contain. Files are watched through their parent directory so
// that editors replacing a file by rename are noticed.
//
// An error returned by fn is logged and watching continues. Watch returns
// nil when ctx is done.
func Watch(
	ctx context.Context,
	paths []string,
	fn func(context.Context) error,
	opts ...WatchOption,
) error {
	cfg := watchConfig{delay: DefaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	match, err := addPaths(w, paths)
	if err != nil {
		return err
	}

	cfg.logger.DebugContext(ctx, "watching",
		slog.Any("paths", paths),
		slog.Duration("debounce", cfg.delay),
	)

	timer := time.NewTimer(cfg.delay)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op == fsnotify.Chmod || !match(ev.Name) {
				continue
			}

			cfg.logger.TraceContext(ctx, "change",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			timer.Reset(cfg.delay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			cfg.logger.WarnContext(ctx, "watch error", slog.Any("error", ErrWatch.Wrap(err)))

		case <-timer.C:
			if err := fn(ctx); err != nil {
				cfg.logger.ErrorContext(ctx, "watch callback failed", slog.Any("error", err))
			}
		}
	}
}

// addPaths registers the watch targets for paths and returns a predicate
// reporting whether an event path is relevant.
func addPaths(w *fsnotify.Watcher, paths []string) (func(string) bool, error) {
	var (
		dirs  []string
		files []string
	)

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("path", p))
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("path", p))
		}

		target := abs
		if info.IsDir() {
			dirs = append(dirs, abs)
		} else {
			files = append(files, abs)
			target = filepath.Dir(abs)
		}

		if slices.Contains(w.WatchList(), target) {
			continue
		}

		if err := w.Add(target); err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("path", target))
		}
	}

	return func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}

		if slices.Contains(files, abs) {
			return true
		}

		return slices.Contains(dirs, filepath.Dir(abs))
	}, nil
}
