// Package monitor assembles live host metrics and presents them in a
// terminal dashboard.
//
// # Architecture
//
// Data flows one way:
//
//	source.Registry -> Assembler -> Scheduler -> Renderer
//
//   - Assembler samples every counter handle once per call and builds an
//     immutable Snapshot. Each category (cpu, memory, disk, network, system)
//     is collected in isolation: a failing or panicking collector yields a
//     Fault and defaults or last-known values for that category only.
//   - Scheduler owns the tick loop. It performs one discarded warm-up
//     sample, waits the settle interval, then assembles and renders once per
//     interval until its context is cancelled. Loop faults are logged,
//     reported to the renderer when it implements FaultReporter, and followed
//     by a backoff wait.
//   - Renderers only display. Bridge forwards snapshots to the Bubble Tea
//     Model; PlainRenderer writes them straight to a writer for pipes and
//     terminals that cannot host the full-screen program.
//
// # Bubble Tea
//
// The Model follows The Elm Architecture. Messages arrive from the Bridge
// (SnapshotMsg, FaultMsg, StateMsg, DoneMsg) and from the terminal (keys,
// mouse, resize). Sampling never happens on the UI goroutine.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C  - Quit
//	r          - Sample immediately
//	?          - Toggle help overlay
//	↑/k, ↓/j   - Scroll
//	PgUp/PgDn  - Page
//	Home/End   - Jump to top/bottom
//
// # Formatting
//
// Byte quantities use 1024 steps with up to two decimals and trailing zeros
// removed (FormatBytes, FormatRate). Percent bars are colored green, yellow
// and red at the configured thresholds (60% and 80% by default).
package monitor
