package bind

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stache/mustache"
)

// LoadData decodes every YAML document in r and merges them into a single
// value. JSON is accepted as a subset of YAML. Mapping keys keep the order in
// which they appear in the document. Empty and null documents are skipped, so
// an empty stream yields an empty object.
func LoadData(ctx context.Context, r io.Reader) (mustache.Value, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())

	var data mustache.Value = mustache.NewObject()

	for doc := 0; ; doc++ {
		var v any

		err := dec.DecodeContext(ctx, &v)
		if errors.Is(err, io.EOF) {
			return data, nil
		}

		if err != nil {
			return nil, ErrDecodeData.Wrap(err).With(slog.Int("document", doc))
		}

		if v == nil {
			continue
		}

		data = Merge(data, FromYAML(v))
	}
}

// FromYAML converts a value produced by the YAML decoder into a
// [mustache.Value]. Ordered mappings become objects in document order;
// everything else is handled by [mustache.FromNative].
func FromYAML(v any) mustache.Value {
	switch v := v.(type) {
	case yaml.MapSlice:
		o := mustache.NewObject()

		for _, item := range v {
			o.Set(keyString(item.Key), FromYAML(item.Value))
		}

		return o

	case []any:
		l := make(mustache.List, len(v))
		for i, e := range v {
			l[i] = FromYAML(e)
		}

		return l

	case map[string]any:
		o := mustache.NewObject()

		for _, k := range sortedKeys(v) {
			o.Set(k, FromYAML(v[k]))
		}

		return o

	default:
		return mustache.FromNative(v)
	}
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Merge merges src into dst and returns the result. When both are objects,
// keys of src are set on dst, merging nested objects recursively; otherwise
// src replaces dst. dst is modified in place.
func Merge(dst, src mustache.Value) mustache.Value {
	d, ok := dst.(*mustache.Object)
	if !ok {
		return src
	}

	s, ok := src.(*mustache.Object)
	if !ok {
		return src
	}

	for k, v := range s.All() {
		if prev, ok := d.Get(k); ok {
			v = Merge(prev, v)
		}

		d.Set(k, v)
	}

	return d
}

// Keys returns the dotted path of every object member reachable from v
// without descending into lists, in document order.
func Keys(v mustache.Value) []string {
	var keys []string

	var walk func(prefix string, v mustache.Value)

	walk = func(prefix string, v mustache.Value) {
		o, ok := v.(*mustache.Object)
		if !ok {
			return
		}

		for k, child := range o.All() {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}

			keys = append(keys, path)
			walk(path, child)
		}
	}

	walk("", v)

	return keys
}

// Children returns the member names of the object found by following the
// dotted path from v, or nil if the path does not name an object. The empty
// path names v itself.
func Children(v mustache.Value, path string) []string {
	cur := v

	if path != "" {
		for _, seg := range splitPath(path) {
			o, ok := cur.(*mustache.Object)
			if !ok {
				return nil
			}

			if cur, ok = o.Get(seg); !ok {
				return nil
			}
		}
	}

	o, ok := cur.(*mustache.Object)
	if !ok {
		return nil
	}

	return o.Keys()
}

func splitPath(path string) []string {
	var segs []string

	start := 0

	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if i > start {
				segs = append(segs, path[start:i])
			}

			start = i + 1
		}
	}

	return segs
}
