package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/logger"
	"golang.org/x/term"
)

// PlainRenderer writes snapshots straight to a writer without the full
// Bubble Tea program. On a terminal it redraws in place; otherwise each
// snapshot is appended, separated by a rule, so output can be piped.
type PlainRenderer struct {
	out  *termenv.Output
	view View

	mu    sync.Mutex
	tty   bool
	fd    int
	width int
}

// NewPlainRenderer creates a renderer writing to w.
func NewPlainRenderer(w io.Writer, view View) *PlainRenderer {
	r := &PlainRenderer{
		out:   termenv.NewOutput(w),
		view:  view,
		width: defaultWidth,
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.tty = true
		r.fd = int(f.Fd())
	}
	return r
}

// Start prints the banner and hides the cursor on a terminal.
func (r *PlainRenderer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tty {
		r.out.HideCursor()
		r.out.ClearScreen()
		r.out.MoveCursor(1, 1)
	}
	fmt.Fprintln(r.out, HostNameStyle.Render("TopNet - System Monitor"))
	fmt.Fprintln(r.out, LabelStyle.Render("Press Ctrl+C to exit"))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, MutedStyle.Render("Initializing..."))
}

// Render draws one snapshot.
func (r *PlainRenderer) Render(s *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.view.History.Push(s)
	width := r.termWidth()
	body := r.view.Render(s, width)

	if r.tty {
		r.out.ClearScreen()
		r.out.MoveCursor(1, 1)
	} else {
		fmt.Fprintln(r.out, MutedStyle.Render(strings.Repeat("─", width)))
	}
	_, err := fmt.Fprintln(r.out, body)
	return err
}

// ReportFault prints a loop fault on its own line.
func (r *PlainRenderer) ReportFault(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, FaultStyle.Render("Error: "+errors.Short(err)))
}

// Close restores the cursor and prints the exit message.
func (r *PlainRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tty {
		r.out.ShowCursor()
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, LabelStyle.Render("topnet has exited."))
}

func (r *PlainRenderer) termWidth() int {
	if !r.tty {
		return r.width
	}
	if w, _, err := term.GetSize(r.fd); err == nil && w > 0 {
		return w
	}
	return r.width
}

// RunPlain runs the scheduler against a PlainRenderer until ctx is cancelled.
func RunPlain(ctx context.Context, w io.Writer, src SnapshotSource, view View, log logger.Logger, opts SchedulerOptions) {
	r := NewPlainRenderer(w, view)
	r.Start()
	defer r.Close()

	NewScheduler(src, r, log, opts).Run(ctx)
}
