package bind

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"
)

// DefaultPathEnv names the environment variable holding extra partial
// directories, separated by [os.PathListSeparator].
const DefaultPathEnv = "STACHE_PATH"

// SearchPath returns the directories searched for partial files: dirs first,
// in order, followed by the entries of the environment variable env. Entries
// that are not existing directories and repeated entries are dropped.
func SearchPath(env string, dirs ...string) []string {
	var subject string
	if env != "" {
		subject = os.Getenv(env)
	}

	merged := mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var out []string

	for _, dir := range filepath.SplitList(merged) {
		if dir == "" || !isDir(dir) {
			continue
		}

		dir = filepath.Clean(dir)
		if !slices.Contains(out, dir) {
			out = append(out, dir)
		}
	}

	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
