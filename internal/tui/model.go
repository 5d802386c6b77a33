package tui

import (
	"time"

	"mangaread/internal/reader"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type viewMode int

const (
	infoView viewMode = iota
	readingView
)

// refreshMsg redraws the reading view so fetch completions show up
// without a key press.
type refreshMsg struct{}

const refreshInterval = 100 * time.Millisecond

// Model is the bubbletea model wrapping one reading session. It never
// mutates engine state itself: scroll offsets are sent into the session
// and the composed slots are re-read on every refresh.
type Model struct {
	session  *reader.Session
	mode     viewMode
	viewport viewport.Model
	pageRows int
	width    int
	sized    bool
}

// New creates the TUI over a started session.
func New(session *reader.Session) *Model {
	return &Model{
		session:  session,
		mode:     infoView,
		pageRows: int(session.PageHeight()),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return refreshTick()
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Leave room for the help bar
		if !m.sized {
			m.viewport = viewport.New(msg.Width, msg.Height-1)
			m.sized = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 1
		}
		m.refreshContent()
		return m, nil

	case refreshMsg:
		if m.mode == readingView {
			m.refreshContent()
		}
		return m, refreshTick()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "r":
		if m.mode == infoView {
			m.mode = readingView
			m.refreshContent()
			return m, nil
		}
	case "i", "tab", "esc":
		if m.mode == readingView {
			m.mode = infoView
			return m, nil
		}
	}

	// Everything else belongs to the viewport in the reading view; the
	// resulting offset is handed to the engine.
	if m.mode == readingView && m.sized {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.session.Scroll(float64(m.viewport.YOffset))
		return m, cmd
	}
	return m, nil
}

// refreshContent rebuilds the viewport content from the current window
// state, preserving the scroll offset.
func (m *Model) refreshContent() {
	if !m.sized {
		return
	}
	slots := m.session.ComposedSlots()
	if slots == nil {
		m.viewport.SetContent(StatusStyle.Render("loading pages..."))
		return
	}
	m.viewport.SetContent(RenderSlots(slots, m.width, m.pageRows))
}

// View implements tea.Model
func (m *Model) View() string {
	if m.mode == infoView {
		return RenderInfo(m.session.Manga())
	}
	if !m.sized {
		return StatusStyle.Render("loading pages...")
	}
	return m.viewport.View() + "\n" + RenderKeyCommands()
}
