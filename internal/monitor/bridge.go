package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge forwards Scheduler output to a Bubble Tea program via
// program.Send(). It is goroutine-safe and never blocks after the program
// has exited.
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a bridge that forwards to the given program.
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// Render hands the snapshot to the TUI. Formatting happens on the UI side.
func (b *Bridge) Render(s *Snapshot) error {
	b.program.Send(SnapshotMsg{Snapshot: s})
	return nil
}

// ReportFault forwards a loop fault to the TUI footer.
func (b *Bridge) ReportFault(err error) {
	b.program.Send(FaultMsg{Err: err})
}

// SetState forwards a scheduler state change.
func (b *Bridge) SetState(st State) {
	b.program.Send(StateMsg{State: st})
}

// Done tells the TUI that the scheduler has stopped.
func (b *Bridge) Done() {
	b.program.Send(DoneMsg{})
}
