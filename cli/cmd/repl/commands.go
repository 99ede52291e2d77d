package repl

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/stache/mustache"
)

// command is a control-mode command.
type command struct {
	name  string
	alias []string
	args  string
	help  string
	run   func(m model, args []string) (model, tea.Cmd)
}

// commands is populated by init: help refers back to the table.
var commands []command

func init() {
	commands = []command{
		{
			name: "help", alias: []string{"h", "?"},
			help: "Print this help",
			run: func(m model, _ []string) (model, tea.Cmd) {
				return m, tea.Println(helpMessage())
			},
		},
		{
			name: "keys", alias: []string{"k"}, args: "[PATH]",
			help: "List the members of the object at PATH",
			run: func(m model, args []string) (model, tea.Cmd) {
				return m, tea.Println(m.listKeys(strings.Join(args, "")))
			},
		},
		{
			name: "names", alias: []string{"n"},
			help: "List the names referenced by the last template",
			run: func(m model, _ []string) (model, tea.Cmd) {
				return m, tea.Println(m.listNames())
			},
		},
		{
			name: "reload", alias: []string{"r"},
			help: "Re-read the bound data files",
			run: func(m model, _ []string) (model, tea.Cmd) {
				if err := m.session.Reload(m.ctx); err != nil {
					return m, printError(err)
				}

				return m, tea.Println(resultStyle.Render("data reloaded"))
			},
		},
		{
			name: "edit", alias: []string{"e"},
			help: "Edit the last template in $EDITOR",
			run: func(m model, _ []string) (model, tea.Cmd) {
				return m, m.edit()
			},
		},
		{
			name: "clear", alias: []string{"c"},
			help: "Clear the screen",
			run: func(m model, _ []string) (model, tea.Cmd) {
				return m, tea.ClearScreen
			},
		},
		{
			name: "quit", alias: []string{"q", "exit"},
			help: "Exit the REPL",
			run: func(m model, _ []string) (model, tea.Cmd) {
				m.quitting = true

				return m, tea.Quit
			},
		},
	}
}

// commandNames returns the primary name of every command, for completion.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}

		for _, a := range c.alias {
			if a == name {
				return c, true
			}
		}
	}

	return command{}, false
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\nCommands (press Esc to toggle mode):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-13s %s\n", strings.TrimSpace(c.name+" "+c.args), c.help)
	}

	b.WriteString(`
Usage:
  Type a template to render it against the bound data
  Completions appear inside {{ tags; Tab / Shift-Tab cycle through them
  Space or Enter accepts the selected candidate
  Up/Down walk the history, switching mode to match each entry
  Shift+Up/Down walk the history of the current mode only
  Alt+Up/Down walk the command history from either mode
  Ctrl+C on an empty line or Ctrl+D exits
`)

	return b.String()
}

// runCommand echoes line and runs the command it names.
func (m model) runCommand(line string) (model, tea.Cmd) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return m, nil
	}

	c, ok := lookupCommand(fields[0])
	if !ok {
		return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try 'help')"))
	}

	m, cmd := c.run(m, fields[1:])

	return m, tea.Sequence(tea.Println(modeCtrl.echo(line)), cmd)
}

// listKeys lists the members of the object at path with a preview of each.
func (m model) listKeys(path string) string {
	chain := m.session.Scopes()

	names := childCandidates(chain, path)
	if len(names) == 0 {
		return hintStyle.Render("  (no members)")
	}

	stack := mustache.NewStack(chain...)

	lines := make([]string, 0, len(names))

	for _, name := range names {
		full := name
		if path != "" {
			full = path + "." + name
		}

		if v, ok := stack.Get(full); ok {
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				name, hintKindStyle.Render(v.Kind().String()), hintStyle.Render(describe(v))))
		}
	}

	return strings.Join(lines, "\n")
}

// listNames lists the names referenced by the last template, marking those
// that do not resolve in the scopes a render would build for them.
func (m model) listNames() string {
	if m.lastTmpl == nil {
		return hintStyle.Render("  (no template rendered yet)")
	}

	refs := m.lastTmpl.Names()
	lines := make([]string, 0, len(refs))

	for _, ref := range refs {
		var ok bool

		if ref.Tag == mustache.TagPartial {
			_, ok = m.session.Context().GetPartial(ref.Name)
		} else {
			_, ok = mustache.NewStack(scopes(m.session.Scopes(), ref.Scopes())...).Get(ref.Name)
		}

		mark := resultStyle.Render("✔")
		if !ok {
			mark = errorStyle.Render("✘")
		}

		lines = append(lines, fmt.Sprintf("  %s %s %s", mark, ref.Name, hintStyle.Render(ref.Tag.String())))
	}

	return strings.Join(lines, "\n")
}
