package repl

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.nav.active = false
		m.histIdx = m.history.Len()
		m.setInput(snapshot{})

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.nav.active = false

		if m.comp.cycling && len(m.comp.matches) > 0 {
			// Accept the selected candidate without submitting.
			m.comp.cycling = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.ctrlHistory(-1), nil
		}

		return m.step(-1), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.ctrlHistory(1), nil
		}

		return m.step(1), nil

	case tea.KeyShiftUp:
		return m.stepInMode(-1), nil

	case tea.KeyShiftDown:
		return m.stepInMode(1), nil

	case tea.KeyEsc:
		if m.comp.cycling {
			m.comp.cycling = false
			m.setInput(m.comp.before)

			return m, nil
		}

		m.nav.active = false

		return m.switchMode(1 - m.mode), nil
	}

	// Typing and editing keys. Typing may auto-accept a completion once the
	// word equals the only candidate; deletion and cursor motion never do.
	typing := msg.Type == tea.KeyRunes

	if typing && msg.String() == " " {
		m.comp.cycling = false
	}

	if !typing {
		m.comp.cycling = false
		m.nav.active = false
	}

	var cmd tea.Cmd

	m.histIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typing)

	return m, cmd
}

// setInput replaces the input line and recomputes completions.
func (m *model) setInput(s snapshot) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
	m.refresh(false)
}

func (m *model) snapshot() snapshot {
	return snapshot{text: m.input.Value(), cursor: m.input.Position()}
}

// refresh recomputes the candidates for the word under the cursor. With
// accept set, a word that already equals the sole candidate is accepted and
// the bar is cleared.
func (m *model) refresh(accept bool) {
	c := &m.comp
	c.matches, c.candidates, c.start, c.end = m.computeMatches()

	if !c.cycling {
		c.sel = -1
	}

	if accept && len(c.matches) == 1 && m.input.Value()[c.start:c.end] == c.matches[0].Str {
		m.acceptOnly()
	}
}

// acceptOnly completes the sole candidate and closes the bar.
func (m *model) acceptOnly() {
	m.replaceWord(m.comp.matches[0].Str)
	m.comp.cycling = false
	m.comp.sel = -1
	m.comp.matches = nil
}

// replaceWord substitutes s for the word being completed.
func (m *model) replaceWord(s string) {
	line := m.input.Value()
	m.input.SetValue(line[:m.comp.start] + s + line[m.comp.end:])
	m.input.SetCursor(m.comp.start + len(s))
	m.comp.end = m.comp.start + len(s)
}

// cycle moves the selection by dir, starting a cycle if none is active. A
// single candidate is accepted outright.
func (m model) cycle(dir int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.acceptOnly()

		return m

	case m.comp.cycling:
		m.comp.sel = (m.comp.sel + dir + n) % n

	default:
		m.comp.cycling = true
		m.comp.before = m.snapshot()
		m.comp.sel = 0

		if dir < 0 {
			m.comp.sel = n - 1
		}
	}

	m.replaceWord(m.comp.matches[m.comp.sel].Str)

	return m
}

// switchMode makes mode current, parking the other mode's unsubmitted input.
func (m model) switchMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.pending[m.mode] = m.snapshot()
	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.setInput(m.pending[mode])

	return m
}

// load shows history entry i, switching to its mode when follow is set.
func (m model) load(i int, follow bool) model {
	entry, err := m.history.GetEntry(i)
	if err != nil {
		return m
	}

	if follow {
		m = m.switchMode(entry.Mode)
	}

	m.histIdx = i
	m.setInput(snapshot{text: entry.Line, cursor: len(entry.Line)})

	return m
}

// leaveHistory returns to a blank line after the newest entry.
func (m model) leaveHistory() model {
	m.histIdx = m.history.Len()
	m.setInput(snapshot{})

	return m
}

// step moves through all history, following each entry's mode.
func (m model) step(dir int) model {
	switch i := m.histIdx + dir; {
	case i < 0:
		return m
	case i >= m.history.Len():
		if m.histIdx < m.history.Len() {
			return m.leaveHistory()
		}

		return m
	default:
		return m.load(i, true)
	}
}

// find returns the index of the nearest entry in direction dir whose mode is
// mode, or -1.
func (m model) find(dir int, mode inputMode) int {
	for i := m.histIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == mode {
			return i
		}
	}

	return -1
}

// stepInMode moves through the history of the current mode only.
func (m model) stepInMode(dir int) model {
	if i := m.find(dir, m.mode); i >= 0 {
		return m.load(i, false)
	}

	if dir > 0 && m.histIdx < m.history.Len() {
		return m.leaveHistory()
	}

	return m
}

// ctrlHistory moves through command history from either mode. Running off
// the newest entry restores the mode and input that were current when the
// navigation began.
func (m model) ctrlHistory(dir int) model {
	if !m.nav.active {
		m.nav = altNav{active: true, mode: m.mode, saved: m.snapshot()}
		m = m.switchMode(modeCtrl)
	}

	if i := m.find(dir, modeCtrl); i >= 0 {
		return m.load(i, false)
	}

	if dir < 0 {
		return m
	}

	m.nav.active = false
	m = m.switchMode(m.nav.mode)
	m.histIdx = m.history.Len()
	m.setInput(m.nav.saved)

	return m
}
