package monitor

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/topnet/internal/errors"
)

// Chrome reserved around the viewport
const (
	headerHeight = 1
	footerHeight = 1
)

// SnapshotMsg delivers a freshly assembled snapshot.
type SnapshotMsg struct {
	Snapshot *Snapshot
}

// FaultMsg delivers a loop-level fault.
type FaultMsg struct {
	Err error
}

// StateMsg delivers a scheduler state change.
type StateMsg struct {
	State State
}

// DoneMsg signals that the scheduler has stopped.
type DoneMsg struct{}

// Model is the Bubble Tea model for the live dashboard. It only displays
// what the Scheduler sends it; sampling happens elsewhere.
type Model struct {
	view     View
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	ready    bool

	width  int
	height int

	snapshot  *Snapshot
	state     State
	lastFault string
	showHelp  bool
	quitting  bool

	cancel  func()
	refresh func()
}

// NewModel creates the dashboard model. cancel stops the scheduler when the
// user quits; refresh asks it for an early tick. Either may be nil.
func NewModel(view View, cancel, refresh func()) Model {
	return Model{
		view:    view,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		state:   StateWarmingUp,
		cancel:  cancel,
		refresh: refresh,
	}
}

// Init sets the window title.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("topnet")
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		h := max(1, m.height-headerHeight-footerHeight)
		if !m.ready {
			m.viewport = viewport.New(m.width, h)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = h
		}
		m.syncContent()

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		m.view.History.Push(msg.Snapshot)
		m.syncContent()

	case FaultMsg:
		if msg.Err != nil {
			m.lastFault = errors.Short(msg.Err)
		}

	case StateMsg:
		m.state = msg.State

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// syncContent re-renders the snapshot into the viewport, keeping the scroll position.
func (m *Model) syncContent() {
	if !m.ready || m.snapshot == nil {
		return
	}
	m.viewport.SetContent(m.view.Render(m.snapshot, m.width))
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.snapshot == nil {
		return m.renderWelcome()
	}

	var body string
	if m.ready {
		body = m.viewport.View()
	} else {
		body = m.view.Render(m.snapshot, m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderWelcome() string {
	lines := lipgloss.JoinVertical(lipgloss.Center,
		HeaderStyle.Render("TopNet - System Monitor"),
		LabelStyle.Render("Press Ctrl+C to exit"),
		"",
		MutedStyle.Render("Initializing..."),
	)
	if m.width <= 0 || m.height <= 0 {
		return lines
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, lines)
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render("topnet")
	status := " | " + m.state.String()
	if m.snapshot != nil {
		status += " | updated " + m.snapshot.Timestamp.Format("15:04:05")
	}
	return HeaderStyle.Render(title + LabelStyle.Render(status))
}

func (m Model) renderFooter() string {
	if m.lastFault != "" {
		return FooterStyle.Render(FaultStyle.Render("! " + m.lastFault))
	}
	return FooterStyle.Render(m.help.View(m.keys))
}

// Snapshot returns the snapshot currently on screen.
func (m Model) Snapshot() *Snapshot {
	return m.snapshot
}
