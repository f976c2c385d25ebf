package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/topnet/internal/config"
	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/logger"
)

// State is the scheduler lifecycle state.
type State int

const (
	StateWarmingUp State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateWarmingUp:
		return "warming-up"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SnapshotSource produces snapshots. *Assembler implements it.
type SnapshotSource interface {
	Assemble(ctx context.Context) (*Snapshot, error)
}

// Renderer consumes every snapshot produced while running.
type Renderer interface {
	Render(s *Snapshot) error
}

// FaultReporter is implemented by renderers that surface loop faults.
type FaultReporter interface {
	ReportFault(err error)
}

// StateReporter is implemented by renderers that track scheduler state.
type StateReporter interface {
	SetState(s State)
}

// SchedulerOptions holds the loop timings. Zero values use the defaults.
type SchedulerOptions struct {
	Interval time.Duration
	Settle   time.Duration
	Backoff  time.Duration
}

func (o SchedulerOptions) withDefaults() SchedulerOptions {
	if o.Interval <= 0 {
		o.Interval = config.DefaultInterval
	}
	if o.Settle <= 0 {
		o.Settle = config.DefaultSettle
	}
	if o.Backoff <= 0 {
		o.Backoff = config.DefaultBackoff
	}
	return o
}

// Scheduler drives the tick loop: Warming-up, then Running until the
// context is cancelled, then Stopped.
//
// Warming-up performs one throwaway Assemble so that rate handles and the
// uptime handle are primed, then waits the settle interval. Only snapshots
// assembled after that reach the Renderer.
type Scheduler struct {
	src      SnapshotSource
	renderer Renderer
	log      logger.Logger
	opts     SchedulerOptions

	refresh chan struct{}

	mu    sync.Mutex
	state State
}

// NewScheduler creates a scheduler. renderer may be nil when only Once is used.
func NewScheduler(src SnapshotSource, renderer Renderer, log logger.Logger, opts SchedulerOptions) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	return &Scheduler{
		src:      src,
		renderer: renderer,
		log:      log,
		opts:     opts.withDefaults(),
		refresh:  make(chan struct{}, 1),
		state:    StateWarmingUp,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	if r, ok := s.renderer.(StateReporter); ok {
		r.SetState(st)
	}
}

// Refresh ends the current running wait early. It never blocks.
func (s *Scheduler) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Run executes the loop until ctx is cancelled. Cancellation is a normal
// exit, not an error.
func (s *Scheduler) Run(ctx context.Context) {
	defer s.setState(StateStopped)

	if !s.warmUp(ctx) {
		return
	}
	s.setState(StateRunning)

	for {
		wait := s.opts.Interval
		if err := s.tick(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Error("monitor loop fault, retrying in %s: %v", s.opts.Backoff, err)
			s.reportFault(err)
			wait = s.opts.Backoff
		}

		if !s.wait(ctx, wait, true) {
			return
		}
	}
}

// Once performs the two-phase startup and returns the first real snapshot.
func (s *Scheduler) Once(ctx context.Context) (*Snapshot, error) {
	defer s.setState(StateStopped)

	if !s.warmUp(ctx) {
		return nil, ctx.Err()
	}
	s.setState(StateRunning)

	snap, err := s.assemble(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// warmUp primes the counters and waits the settle interval. It reports
// false when ctx was cancelled.
func (s *Scheduler) warmUp(ctx context.Context) bool {
	s.setState(StateWarmingUp)

	if _, err := s.assemble(ctx); err != nil {
		if ctx.Err() != nil {
			return false
		}
		s.log.Warn("warm-up sample failed: %v", err)
		s.reportFault(err)
	}
	return s.wait(ctx, s.opts.Settle, false)
}

// tick assembles and renders one snapshot. A panic in either step is
// returned as an error.
func (s *Scheduler) tick(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New(errors.ErrCollect, fmt.Sprintf("unexpected fault: %v", rec), "")
		}
	}()

	snap, err := s.src.Assemble(ctx)
	if err != nil {
		return err
	}
	if s.renderer == nil {
		return nil
	}
	if err := s.renderer.Render(snap); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "Failed to render snapshot", "")
	}
	return nil
}

func (s *Scheduler) assemble(ctx context.Context) (snap *Snapshot, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			snap = nil
			err = errors.New(errors.ErrCollect, fmt.Sprintf("unexpected fault: %v", rec), "")
		}
	}()
	return s.src.Assemble(ctx)
}

// wait sleeps for d. It returns false when ctx is cancelled and returns
// early on Refresh when refreshable is set.
func (s *Scheduler) wait(ctx context.Context, d time.Duration, refreshable bool) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	var refresh <-chan struct{}
	if refreshable {
		refresh = s.refresh
	}

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-refresh:
		return true
	}
}

func (s *Scheduler) reportFault(err error) {
	if r, ok := s.renderer.(FaultReporter); ok {
		r.ReportFault(err)
	}
}
