package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/stache/mustache"
)

func TestTagName(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		want   string
	}{
		{"{{user.name}}", 5, "user.name"},
		{"{{#items", 8, "items"},
		{"{{", 2, ""},
		{"text", 2, ""},
		{"{{ a }}", 4, "a"},
	}

	for _, tt := range tests {
		if got := tagName(tt.input, tt.cursor); got != tt.want {
			t.Errorf("tagName(%q, %d) = %q, want %q", tt.input, tt.cursor, got, tt.want)
		}
	}
}

func TestTagHint(t *testing.T) {
	base := testScopes()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantNil bool
	}{
		{"string", "{{user.name", []string{"user.name", "String", `"Ada"`}, false},
		{"object", "{{user", []string{"Object", "name, address"}, false},
		{"list", "{{#items", []string{"List", "[1 items]"}, false},
		{"nested", "{{#items}}{{title", []string{"items", "title", `"first"`}, false},
		{"lambda", "{{upper", []string{"Lambda"}, false},
		{"missing", "{{nope", nil, true},
		{"outside", "plain", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tagHint(base, tt.input, len(tt.input))
			if tt.wantNil {
				if got != "" {
					t.Errorf("tagHint(%q) = %q, want empty", tt.input, got)
				}

				return
			}

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("tagHint(%q) = %q, missing %q", tt.input, got, w)
				}
			}
		})
	}
}

func TestDescribe_Truncates(t *testing.T) {
	long := mustache.String(strings.Repeat("x", maxPreview*2))

	if got := describe(long); len(got) > maxPreview+2 || !strings.HasSuffix(got, `..."`) {
		t.Errorf("describe(long) = %q", got)
	}

	if got := describe(mustache.True); got != "" {
		t.Errorf("describe(True) = %q, want empty", got)
	}
}
