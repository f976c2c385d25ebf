// Package cli implements the topnet command-line interface.
//
// Each Cobra command is a thin shell that loads config and hands off to
// the monitor and source packages.
//
// # Command Structure
//
//	topnet                    - Live monitor (full-screen, or plain when piped or --plain)
//	topnet snapshot           - Print one snapshot as text, json, or yaml
//	topnet init               - Create a config file
//	topnet config set|show|path
//	topnet version
//	topnet completion <shell>
//
// # Startup
//
// The live monitor and snapshot share the same setup:
//
//  1. Load config (defaults, file, TOPNET_* environment) and validate it
//  2. Route logging: a log file when log.file is set, otherwise discarded
//     while a redrawing display owns the terminal
//  3. Open counter handles through source.NewRegistry
//  4. Run the monitor.Scheduler (Run for the live monitor, Once for snapshot)
//
// Interrupt and SIGTERM cancel the command context, which the scheduler
// treats as a clean stop.
package cli
