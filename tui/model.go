package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hochfrequenz/orgchart/internal/domain"
	"github.com/hochfrequenz/orgchart/internal/orgservice"
	"github.com/hochfrequenz/orgchart/internal/render"
)

// Mode determines how key presses are interpreted
type Mode int

const (
	ModeBrowse Mode = iota
	ModeFilter
	ModeConfirmDelete
)

// Model is the TUI application model
type Model struct {
	svc *orgservice.Service

	// Data
	entries []domain.Entry

	// UI state
	width  int
	height int
	cursor int
	scroll int
	mode   Mode
	indent string

	// filter is the committed position filter; input is what is being typed
	filter string
	input  string
	status string

	// Refresh
	lastRefresh time.Time
}

// ModelConfig holds initial settings for the TUI model
type ModelConfig struct {
	Service *orgservice.Service
	Indent  string
}

// NewModel creates a new TUI model
func NewModel(cfg ModelConfig) Model {
	indent := cfg.Indent
	if indent == "" {
		indent = render.DefaultIndent
	}
	m := Model{
		svc:    cfg.Service,
		indent: indent,
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg triggers a refresh
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// refresh reloads entries from the service and keeps the cursor in range
func (m *Model) refresh() {
	m.entries = m.svc.Snapshot()
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.lastRefresh = time.Now()
}

// Selected returns the entry under the cursor
func (m Model) Selected() (domain.Entry, bool) {
	if len(m.entries) == 0 {
		return domain.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// Status returns the status line message
func (m Model) Status() string {
	return m.status
}

// Mode returns the current input mode
func (m Model) Mode() Mode {
	return m.mode
}

func (m Model) isMatch(e domain.Entry) bool {
	return m.filter != "" && e.Employee.Position == m.filter
}

// matchIndexes returns the positions of entries matching the filter
func (m Model) matchIndexes() []int {
	var out []int
	for i, e := range m.entries {
		if m.isMatch(e) {
			out = append(out, i)
		}
	}
	return out
}
