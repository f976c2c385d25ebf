package monitor

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/logger"
)

// DashboardOptions configures the live TUI.
type DashboardOptions struct {
	Schedule  SchedulerOptions
	AltScreen bool
}

// RunDashboard runs the scheduler in the background and the TUI in the
// foreground until the user quits or parent is cancelled. Quitting and
// cancellation are not errors.
func RunDashboard(parent context.Context, src SnapshotSource, view View, log logger.Logger, opts DashboardOptions) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var sched *Scheduler
	model := NewModel(view, cancel, func() {
		if sched != nil {
			sched.Refresh()
		}
	})

	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, progOpts...)

	bridge := NewBridge(program)
	sched = NewScheduler(src, bridge, log, opts.Schedule)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(ctx)
		bridge.Done()
	}()

	_, err := program.Run()
	cancel()
	<-done

	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, tea.ErrInterrupted):
		return nil
	case stderrors.Is(err, tea.ErrProgramKilled) && parent.Err() != nil:
		return nil
	}
	return errors.WrapWithCode(err, errors.ErrRender, "Dashboard exited unexpectedly",
		"Try --plain if the terminal does not support full-screen output")
}
