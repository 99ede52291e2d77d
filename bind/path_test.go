package bind

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestSearchPath(t *testing.T) {
	base := t.TempDir()

	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	c := filepath.Join(base, "c")
	missing := filepath.Join(base, "missing")

	for _, dir := range []string{a, b, c} {
		if err := os.Mkdir(dir, 0o700); err != nil {
			t.Fatal(err)
		}
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	sep := string(os.PathListSeparator)
	t.Setenv("STACHE_TEST_PATH", strings.Join([]string{c, missing, a, file}, sep))

	got := SearchPath("STACHE_TEST_PATH", a, b, missing)

	if want := []string{a, b, c}; !slices.Equal(got, want) {
		t.Errorf("SearchPath() = %q, want %q", got, want)
	}
}

func TestSearchPath_NoEnv(t *testing.T) {
	dir := t.TempDir()

	if got := SearchPath("", dir); !slices.Equal(got, []string{dir}) {
		t.Errorf("SearchPath(\"\", %q) = %q", dir, got)
	}

	if got := SearchPath(""); len(got) != 0 {
		t.Errorf("SearchPath(\"\") = %q, want none", got)
	}
}
