package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheck_Run(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"data.yaml":         "name: Ada\nitems:\n  - title: first\n",
		"bad.mustache":      "ok {{#open}}",
		"typo.mustache":     "{{nam}} {{name}}",
		"sections.mustache": "{{#items}}{{title}}{{/items}}{{#missing}}{{inner}}{{/missing}}",
		"partials.mustache": "{{>header}}{{>footer}}",
		"p/header.mustache": "h",
		"clean.mustache":    "{{name}}{{#items}}{{title}}{{name}}{{/items}}",
		"lambda.mustache":   "{{#shout}}x{{/shout}}",
		"inverted.mustache": "{{^missing}}{{typo}}{{/missing}}{{^name}}{{hidden}}{{/name}}",
		"empty.mustache":    "{{#none}}{{gone}}{{/none}}{{^none}}{{shown}}{{/none}}",
		"empty.yaml":        "none: []\n",
	})

	path := func(name string) string { return filepath.Join(dir, name) }
	data := []string{path("data.yaml")}

	tests := []struct {
		name     string
		check    Check
		bind     Binding
		wantErr  bool
		want     []string
		wantNone []string
	}{
		{
			name:    "invalid",
			check:   Check{Template: []string{path("bad.mustache"), path("clean.mustache")}},
			wantErr: true,
			want:    []string{path("bad.mustache") + ": Unclosed section"},
		},
		{
			name:     "no_data",
			check:    Check{Template: []string{path("typo.mustache")}},
			wantNone: []string{"unresolved"},
		},
		{
			name:     "typo",
			check:    Check{Template: []string{path("typo.mustache")}},
			bind:     Binding{Data: data},
			want:     []string{`unresolved variable "nam" (did you mean "name"?)`},
			wantNone: []string{`"name" (`},
		},
		{
			name:    "strict",
			check:   Check{Template: []string{path("typo.mustache")}, Strict: true},
			bind:    Binding{Data: data},
			wantErr: true,
			want:    []string{`unresolved variable "nam"`},
		},
		{
			name:     "sections",
			check:    Check{Template: []string{path("sections.mustache")}},
			bind:     Binding{Data: data},
			want:     []string{`unresolved section "missing"`},
			wantNone: []string{"title", "inner"},
		},
		{
			name:     "partials",
			check:    Check{Template: []string{path("partials.mustache")}},
			bind:     Binding{Data: data, Partials: []string{path("p")}},
			want:     []string{`unresolved partial "footer"`},
			wantNone: []string{"header"},
		},
		{
			name:     "inverted",
			check:    Check{Template: []string{path("inverted.mustache")}},
			bind:     Binding{Data: data},
			want:     []string{`unresolved variable "typo"`},
			wantNone: []string{`"missing"`, "hidden"},
		},
		{
			name:     "empty_list",
			check:    Check{Template: []string{path("empty.mustache")}},
			bind:     Binding{Data: []string{path("empty.yaml")}},
			want:     []string{`unresolved variable "shown"`},
			wantNone: []string{"gone", `"none"`},
		},
		{
			name:  "clean",
			check: Check{Template: []string{path("clean.mustache")}, Strict: true},
			bind:  Binding{Data: data},
		},
		{
			name:  "lambda_only",
			check: Check{Template: []string{path("lambda.mustache")}, Strict: true},
			bind:  Binding{Lambda: []string{"shout=upper(text)"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := bindContext(t, &tt.bind, "")

			err := tt.check.Run(ctx)
			if tt.wantErr {
				if !errors.Is(err, ErrCheckFailed) {
					t.Fatalf("Run() error = %v, want %v", err, ErrCheckFailed)
				}
			} else if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			got := out.String()

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}

			for _, w := range tt.wantNone {
				if strings.Contains(got, w) {
					t.Errorf("output contains %q:\n%s", w, got)
				}
			}

			if len(tt.want) == 0 && got != "" {
				t.Errorf("output = %q, want nothing", got)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"name", "items", "user", "user.name"}

	if got := suggest("nme", candidates); !strings.Contains(got, `"name"`) {
		t.Errorf("suggest(nme) = %q, want a mention of name", got)
	}

	if got := suggest("usr.nam", []string{"name"}); !strings.Contains(got, `"name"`) {
		t.Errorf("suggest(usr.nam) = %q, want the last segment matched", got)
	}

	if got := suggest("zzz", candidates); got != "" {
		t.Errorf("suggest(zzz) = %q, want empty", got)
	}

	if got := suggest("name", nil); got != "" {
		t.Errorf("suggest with no candidates = %q, want empty", got)
	}
}
