package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is converted as follows:
//   - Top-level keys name flags; "log-level" and "log_level" are equivalent
//   - Nested mappings are joined to their parent key with '-', so
//     "log: {level: debug}" sets --log-level
//   - Sequences become repeated values of slice flags
//   - Scalars are passed to kong as strings
//
// Example config file:
//
//	log-level: debug
//	log:
//	  format: text
//	partials:
//	  - ./partials
//	lambda:
//	  - shout=upper(text)
//
// Command-line flags override config file values. An empty or unparseable
// document yields an empty configuration.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			return config{}, nil //nolint:nilerr
		}

		cfg := make(config, len(doc))
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs. Keys are flag names
// with '-' separators.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten stores every leaf of m under its '-'-joined key path.
func (r config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		r[key] = scalar(v)
	}
}

// scalar converts a decoded YAML value to the form kong expects for flag
// values.
func scalar(v any) any {
	switch v := v.(type) {
	case nil:
		return nil

	case string, bool:
		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = fmt.Sprint(scalar(e))
		}

		return out

	default:
		return fmt.Sprint(v)
	}
}
