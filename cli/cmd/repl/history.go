package repl

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

const (
	baseHistory = "history.jsonl"

	// maxHistory bounds the number of entries kept in memory and on disk.
	maxHistory = 1000
)

// MarshalText encodes the mode by name.
func (mode inputMode) MarshalText() ([]byte, error) {
	if int(mode) >= len(modeInfo) || mode < 0 {
		return nil, fmt.Errorf("invalid input mode %d", int(mode))
	}

	return []byte(modeInfo[mode].name), nil
}

// UnmarshalText decodes a mode name. Unknown names decode as modeTemplate.
func (mode *inputMode) UnmarshalText(text []byte) error {
	*mode = modeTemplate

	for i, info := range modeInfo {
		if info.name == string(text) {
			*mode = inputMode(i)
		}
	}

	return nil
}

// HistoryEntry is one submitted line and the mode it was submitted in.
type HistoryEntry struct {
	Line string    `json:"line"`
	Mode inputMode `json:"mode"`
}

// parseEntry decodes one line of the history file. Lines that are not JSON
// objects are taken verbatim as templates, so a hand-written file still
// loads.
func parseEntry(raw []byte) (HistoryEntry, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return HistoryEntry{}, false
	}

	entry := HistoryEntry{Line: string(raw), Mode: modeTemplate}

	if raw[0] == '{' {
		var e HistoryEntry
		if err := json.Unmarshal(raw, &e); err == nil {
			entry = e
		}
	}

	return entry, strings.TrimSpace(entry.Line) != ""
}

// History is the REPL input history, persisted as JSON lines. Each
// (line, mode) pair appears at most once; resubmitting an entry moves it to
// the end.
type History struct {
	path    string
	mu      sync.RWMutex
	entries []HistoryEntry
}

// NewHistory returns an empty history backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the in-memory entries with the contents of the history file.
// A missing file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	var loaded []HistoryEntry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if entry, ok := parseEntry(scanner.Bytes()); ok {
			loaded = append(loaded, entry)
		}
	}

	if len(loaded) > maxHistory {
		loaded = slices.Clone(loaded[len(loaded)-maxHistory:])
	}

	h.entries = loaded

	return scanner.Err()
}

// Write records a template entry.
func (h *History) Write(line string) (int, error) {
	return h.WriteWithMode(line, modeTemplate)
}

// WriteWithMode records line under mode and persists it. The file is
// appended to when the entry is new and rewritten when an older copy is
// dropped or the history overflows.
func (h *History) WriteWithMode(line string, mode inputMode) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return len(line), nil
	}

	compact := false

	if i := slices.Index(h.entries, entry); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		compact = true
	}

	h.entries = append(h.entries, entry)

	if over := len(h.entries) - maxHistory; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
		compact = true
	}

	if compact {
		return h.save()
	}

	b, err := encode(entry)
	if err != nil {
		return 0, err
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.Write(b)
}

// GetEntry returns entry i, where 0 is the oldest.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

func encode(entry HistoryEntry) ([]byte, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	return append(b, '\n'), nil
}

// save replaces the history file with the current entries via a temporary
// file in the same directory. Callers hold h.mu.
func (h *History) save() (int, error) {
	var buf bytes.Buffer

	for _, entry := range h.entries {
		b, err := encode(entry)
		if err != nil {
			return 0, err
		}

		buf.Write(b)
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.path), "."+filepath.Base(h.path)+".*")
	if err != nil {
		return 0, err
	}

	n, err := tmp.Write(buf.Bytes())
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Chmod(tmp.Name(), 0o600)
	}

	if err == nil {
		err = os.Rename(tmp.Name(), h.path)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return 0, err
	}

	return n, nil
}
