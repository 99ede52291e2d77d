package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/mustache"
)

// Session supplies the values a template line renders against.
type Session interface {
	// Scopes returns the bound values, outermost first.
	Scopes() []mustache.Value

	// Context returns a fresh render context over the scopes.
	Context() mustache.Context

	// Reload re-reads the bound data.
	Reload(ctx context.Context) error
}

// Messages delivered when the external editor returns.
type (
	editDoneMsg struct {
		text string
		tmpl *mustache.Template
	}
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

// inputMode selects what a submitted line means: a template to render, or a
// control command.
type inputMode int

const (
	modeTemplate inputMode = iota
	modeCtrl
)

// modeInfo describes how each input mode is presented.
var modeInfo = [...]struct {
	name   string
	prompt string
	style  lipgloss.Style
	empty  func() string
}{
	modeTemplate: {
		name:   "template",
		prompt: "➜ ",
		style:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		empty:  func() string { return "Type a template or press Esc for commands" },
	},
	modeCtrl: {
		name:   "ctrl",
		prompt: " :",
		style:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		empty: func() string {
			return "Type: " + strings.Join(commandNames(), ", ") + " (press Esc to return)"
		},
	},
}

func (mode inputMode) prompt() string { return modeInfo[mode].style.Render(modeInfo[mode].prompt) }

// echo formats a submitted line as it is printed above the prompt.
func (mode inputMode) echo(line string) string { return mode.prompt() + inputStyle.Render(line) }

var (
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func printError(err error) tea.Cmd { return tea.Println(errorStyle.Render("error: " + err.Error())) }

// snapshot is the text and cursor of the input line.
type snapshot struct {
	text   string
	cursor int
}

// completion is the state of the candidate bar.
type completion struct {
	matches    fuzzy.Matches
	candidates []string
	start, end int      // byte span of the word being completed
	sel        int      // selected match while cycling, else -1
	cycling    bool     // Tab was pressed since the last edit
	before     snapshot // input before cycling began, restored by Esc
}

// altNav remembers the input that Alt+Up/Down replaced so it can be restored
// when navigation runs off the end of the command history.
type altNav struct {
	active bool
	mode   inputMode
	saved  snapshot
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx      context.Context
	input    textinput.Model
	session  Session
	options  []mustache.Option
	logger   log.Logger
	history  *History
	histIdx  int
	mode     inputMode
	pending  [2]snapshot // unsubmitted input of the inactive mode
	comp     completion
	nav      altNav
	last     string             // text of the last rendered template
	lastTmpl *mustache.Template // parsed form of last
	width    int
	quitting bool
}

// Run starts the REPL over session, keeping history under cacheDir.
// Templates are parsed with opts.
func Run(
	ctx context.Context,
	session Session,
	cacheDir string,
	logger log.Logger,
	opts ...mustache.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if session == nil {
		return ErrNoSession
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
	)

	_, err = tea.NewProgram(
		newModel(ctx, session, history, logger, opts...),
		tea.WithContext(ctx),
	).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session Session,
	history *History,
	logger log.Logger,
	opts ...mustache.Option,
) model {
	ti := textinput.New()
	ti.Prompt = modeTemplate.prompt()
	ti.CharLimit = 4096
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:     ctx,
		input:   ti,
		session: session,
		options: append(opts, mustache.WithLogger(logger)),
		logger:  logger,
		history: history,
		histIdx: history.Len(),
		mode:    modeTemplate,
		comp:    completion{sel: -1},
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.logger.TraceContext(m.ctx, "repl key", slog.String("key", msg.String()))

		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(m.mode.prompt()) - 2

		return m, nil

	case editDoneMsg:
		m.last, m.lastTmpl = msg.text, msg.tmpl

		return m, m.render(msg.tmpl)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, printError(msg.err)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	input := m.input.Value()

	var status string

	switch {
	case m.histIdx < m.history.Len():
		status = hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.histIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		status = hintStyle.Render(modeInfo[m.mode].empty())

	case len(m.comp.matches) > 0:
		status = renderCandidateBar(m.comp.matches, m.comp.sel, m.comp.cycling, m.width)

	case m.mode == modeTemplate:
		status = tagHint(m.session.Scopes(), input, m.input.Position())
	}

	return m.input.View() + "\n" + status + "\n"
}

// submit handles Enter on a non-empty line.
func (m model) submit() (model, tea.Cmd) {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	if m.mode == modeCtrl {
		line = strings.TrimSpace(line)
	}

	m.pending = [2]snapshot{}
	m.setInput(snapshot{})

	if _, err := m.history.WriteWithMode(line, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "could not write history", slog.Any("error", err))
	}

	m.histIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.runCommand(line)
	}

	echo := tea.Println(m.mode.echo(line))

	tmpl := mustache.New(line, m.options...)
	if !tmpl.Valid() {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+tmpl.ErrorMessage())))
	}

	m.last, m.lastTmpl = line, tmpl

	return m, tea.Sequence(echo, m.render(tmpl))
}

// render renders tmpl against a fresh session context and prints the result.
func (m model) render(tmpl *mustache.Template) tea.Cmd {
	out := tmpl.RenderContext(m.session.Context())

	if err := tmpl.Err(); err != nil {
		return printError(err)
	}

	m.logger.TraceContext(m.ctx, "repl rendered", slog.Int("length", len(out)))

	if out == "" {
		return tea.Println(hintStyle.Render("(empty)"))
	}

	return tea.Println(resultStyle.Render(out))
}

func (m model) edit() tea.Cmd {
	cmd := &editTemplateCommand{
		text:    m.last,
		options: m.options,
		ctx:     m.ctx,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{text: cmd.text, tmpl: cmd.result}
		}
	})
}
