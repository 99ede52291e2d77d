package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Environment variables that override the directories returned by
// [ConfigDir] and [CacheDir].
const (
	ConfigDirEnv = "STACHE_CONFIG_DIR"
	CacheDirEnv  = "STACHE_CACHE_DIR"
)

var (
	debugBin  = regexp.MustCompile(`^__debug_bin\d*$`)
	leadDots  = regexp.MustCompile(`^\.+`)
	testBinRe = regexp.MustCompile(`\.test$`)
)

// Prefix is the directory name used under the user's config and cache
// directories. It is the base name of the running executable with leading
// dots and its extension removed. Debugger and test binaries map to
// [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string { return prefixOf(executable()) })

func executable() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}

	return os.Args[0]
}

func prefixOf(path string) string {
	base := filepath.Base(path)
	if testBinRe.MatchString(base) {
		return Name
	}

	base = leadDots.ReplaceAllString(base, "")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || debugBin.MatchString(base) {
		return Name
	}

	return base
}

// ConfigDir returns the directory holding the configuration file: the value
// of [ConfigDirEnv] if set, else [Prefix] under the user's config directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(ConfigDirEnv, os.UserConfigDir, ".config")
})

// CacheDir returns the directory for transient files such as REPL history
// and profiles: the value of [CacheDirEnv] if set, else [Prefix] under the
// user's cache directory.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(CacheDirEnv, os.UserCacheDir, ".cache")
})

// userDir resolves a per-user directory. When the platform directory is
// unknown it falls back to hidden under $HOME, then to the working directory.
func userDir(env string, platform func() (string, error), hidden string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Clean(dir)
	}

	if dir, err := platform(); err == nil {
		return filepath.Join(dir, Prefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, hidden, Prefix())
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, hidden, Prefix())
	}

	return filepath.Join(hidden, Prefix())
}
