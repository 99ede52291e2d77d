package repl

import (
	"strings"
	"testing"
)

func TestLookupCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"help", "help"},
		{"?", "help"},
		{"k", "keys"},
		{"exit", "quit"},
		{"q", "quit"},
		{"r", "reload"},
		{"nope", ""},
		{"", ""},
	}

	for _, tt := range tests {
		c, ok := lookupCommand(tt.input)
		if ok != (tt.want != "") || c.name != tt.want {
			t.Errorf("lookupCommand(%q) = %q, %v; want %q", tt.input, c.name, ok, tt.want)
		}
	}
}

func TestCommands_UniqueNames(t *testing.T) {
	seen := make(map[string]string)

	for _, c := range commands {
		for _, n := range append([]string{c.name}, c.alias...) {
			if prev, ok := seen[n]; ok {
				t.Errorf("%q names both %s and %s", n, prev, c.name)
			}

			seen[n] = c.name
		}
	}
}

func TestHelpMessage(t *testing.T) {
	help := helpMessage()

	for _, name := range commandNames() {
		if !strings.Contains(help, "  "+name) {
			t.Errorf("help does not describe %q", name)
		}
	}

	if !strings.Contains(help, "keys [PATH]") {
		t.Error("help does not show the arguments of keys")
	}
}

func TestRunCommand_Unknown(t *testing.T) {
	m, _ := testModel(t)

	next, cmd := m.runCommand("bogus arg")
	if cmd == nil || next.quitting {
		t.Fatalf("runCommand(bogus) = %v, quitting %v", cmd, next.quitting)
	}

	if _, cmd = m.runCommand("   "); cmd != nil {
		t.Errorf("blank command returned %v", cmd)
	}
}
