package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

const defaultEditor = "vi"

// editTemplateCommand is a [tea.ExecCommand] that opens $EDITOR on a
// template and parses what comes back. A template that fails to parse is
// reopened until it parses or the user gives up.
type editTemplateCommand struct {
	ctx     context.Context
	logger  log.Logger
	options []mustache.Option

	text   string             // template being edited
	result *mustache.Template // nil until an edit parses

	stdin          io.Reader
	stdout, stderr io.Writer
}

func (c *editTemplateCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editTemplateCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editTemplateCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run edits c.text until it parses. Saving an empty file cancels the edit
// and leaves c.result nil. Declining to fix a parse error returns
// [ErrEditDeclined].
func (c *editTemplateCommand) Run() error {
	f, err := os.CreateTemp("", "stache-repl-*.mustache")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		if err := os.WriteFile(path, []byte(c.text), 0o600); err != nil {
			return err
		}

		if err := c.launch(path); err != nil {
			return err
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(b) == 0 {
			return nil
		}

		c.text = string(b)
		tmpl := mustache.New(c.text, c.options...)

		c.logger.TraceContext(c.ctx, "edited template",
			slog.Int("attempt", attempt),
			slog.Int("bytes", len(b)),
			slog.Bool("valid", tmpl.Valid()),
		)

		if tmpl.Valid() {
			c.result = tmpl

			return nil
		}

		if !c.retry(tmpl.ErrorMessage()) {
			return ErrEditDeclined
		}
	}
}

// retry reports the parse error and asks whether to edit again. Anything
// but an explicit no, including an empty answer, means yes.
func (c *editTemplateCommand) retry(msg string) bool {
	fmt.Fprintf(c.stderr, "\nParse error: %s\n", msg)
	fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

	in := bufio.NewScanner(c.stdin)
	if !in.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(in.Text())) {
	case "n", "no":
		return false
	default:
		return true
	}
}

// launch runs $EDITOR, or vi, on path attached to the command's streams.
func (c *editTemplateCommand) launch(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(c.ctx, editor, path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	return cmd.Run()
}
