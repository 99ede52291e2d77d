package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	streamsKey struct{}
	streams    struct {
		in  io.Reader
		out io.Writer
		err io.Writer
	}
)

// WithStreams returns a new context.Context whose commands read templates
// and data from in and write output to out and diagnostics to errOut. Nil
// streams fall back to the process streams.
func WithStreams(ctx context.Context, in io.Reader, out, errOut io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out, err: errOut})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.err == nil {
		s.err = os.Stderr
	}

	return s
}

type (
	dataFilesKey struct{}
	dataFiles    struct {
		paths    []string
		hasStdin bool
	}

	// DataFiles lists the data documents bound to a render.
	DataFiles interface {
		// IsZero reports whether there are no data files.
		IsZero() bool
		// Paths returns the resolved paths of the regular files, in order.
		Paths() []string
		// HasStdin reports whether stdin was named as a data source. Stdin is
		// always read after the regular files.
		HasStdin() bool
	}
)

// IsZero reports whether there are no data files.
func (s *dataFiles) IsZero() bool { return len(s.paths) == 0 && !s.hasStdin }

// Paths returns the resolved paths of the regular data files in order.
func (s *dataFiles) Paths() []string { return append([]string(nil), s.paths...) }

// HasStdin reports whether stdin was named as a data source.
func (s *dataFiles) HasStdin() bool { return s.hasStdin }

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithDataFiles returns a new context.Context containing the data files named
// by sources.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs, and paths that cannot be opened are dropped. All occurrences of "-"
// collapse to a single stdin source, which is read after every regular file.
func WithDataFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, dataFilesKey{}, buildDataFiles(sources))
}

// buildDataFiles constructs a DataFiles from the given source paths.
func buildDataFiles(sources []string) DataFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs dataFiles

	srcs.paths = make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey
	if stdinInfo, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := resolveUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// resolveUniqueFile resolves path to a readable regular file that hasn't been
// seen before. It resolves symlinks and uses device/inode to detect
// duplicates.
func resolveUniqueFile(path string, seen map[fileKey]struct{}) (string, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	if info.IsDir() {
		return "", false
	}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// dataFilesFrom retrieves the DataFiles stored in ctx by WithDataFiles.
// Returns nil if none were stored.
func dataFilesFrom(ctx context.Context) DataFiles {
	r, _ := ctx.Value(dataFilesKey{}).(DataFiles)

	return r
}
