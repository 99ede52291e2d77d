package bind

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// DefaultExt is the file extension appended to partial names.
const DefaultExt = ".mustache"

// FileContext is a [mustache.Context] that falls back to template files on
// disk for partials the data does not define. Loaded partials are cached for
// the lifetime of the context. A FileContext must not be shared between
// concurrent renders.
type FileContext struct {
	*mustache.Stack

	dirs   []string
	ext    string
	logger log.Logger
	cache  map[string]mustache.Value
	loaded []string
}

// ContextOption configures a [FileContext].
type ContextOption func(*FileContext)

// WithDirs sets the directories searched for partial files, in order.
func WithDirs(dirs ...string) ContextOption {
	return func(c *FileContext) { c.dirs = dirs }
}

// WithExt sets the extension appended to partial names. The empty string
// means partial names are file names.
func WithExt(ext string) ContextOption {
	return func(c *FileContext) { c.ext = ext }
}

// WithContextLogger sets the logger that records partial file lookups.
func WithContextLogger(l log.Logger) ContextOption {
	return func(c *FileContext) { c.logger = l }
}

// NewFileContext returns a context whose scopes are values, outermost first.
func NewFileContext(values []mustache.Value, opts ...ContextOption) *FileContext {
	c := &FileContext{
		Stack: mustache.NewStack(values...),
		ext:   DefaultExt,
		cache: make(map[string]mustache.Value),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetPartial resolves name against the data, then against the first file
// <dir>/<name><ext> found in the search directories. Names that would
// escape a search directory never match a file.
func (c *FileContext) GetPartial(name string) (mustache.Value, bool) {
	if v, ok := c.Stack.GetPartial(name); ok {
		return v, true
	}

	if v, ok := c.cache[name]; ok {
		return v, v != nil
	}

	file := filepath.FromSlash(name + c.ext)
	if name == "" || !filepath.IsLocal(file) {
		c.cache[name] = nil

		return nil, false
	}

	for _, dir := range c.dirs {
		path := filepath.Join(dir, file)

		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		c.logger.Debug("partial file loaded",
			slog.String("name", name),
			slog.String("path", path),
		)

		v := mustache.String(b)
		c.cache[name] = v
		c.loaded = append(c.loaded, path)

		return v, true
	}

	c.logger.Trace("partial not found",
		slog.String("name", name),
		slog.Any("dirs", c.dirs),
	)

	c.cache[name] = nil

	return nil, false
}

// Loaded returns the paths of the partial files read so far, in load order.
func (c *FileContext) Loaded() []string {
	return append([]string(nil), c.loaded...)
}
