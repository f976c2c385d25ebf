package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/topnet/internal/config"
	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/logger"
	"github.com/rileyhilliard/topnet/internal/monitor"
	"github.com/rileyhilliard/topnet/internal/source"
	"golang.org/x/term"
)

// monitorOptions holds the root command's flags.
type monitorOptions struct {
	ConfigPath string
	Plain      bool
	Interval   string
}

// monitorCommand runs the live monitor until ctx is cancelled or the user quits.
func monitorCommand(ctx context.Context, opts monitorOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyInterval(cfg, opts.Interval); err != nil {
		return err
	}
	if opts.Plain {
		cfg.Display.Plain = true
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	plain := cfg.Display.Plain || !tty

	// Nothing may write to the terminal behind a redrawing display.
	closeLog, err := setupLogging(cfg.Log, tty)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.NewEnvLogger("topnet")
	asm, err := newAssembler(ctx, cfg, log)
	if err != nil {
		return err
	}

	view := newView(cfg)
	sched := schedulerOptions(cfg)

	if plain {
		monitor.RunPlain(ctx, os.Stdout, asm, view, log, sched)
		return nil
	}
	return monitor.RunDashboard(ctx, asm, view, log, monitor.DashboardOptions{
		Schedule:  sched,
		AltScreen: cfg.Display.AltScreen,
	})
}

// loadConfig loads and validates the config, falling back to defaults
// when no file exists.
func loadConfig(path string) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	logger.SetDebug(cfg.Log.Debug)
	return cfg, nil
}

// applyInterval overrides schedule.interval from the --interval flag.
func applyInterval(cfg *config.Config, flag string) error {
	if flag == "" {
		return nil
	}
	d, err := time.ParseDuration(flag)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 1s, 2s, or 500ms.")
	}
	cfg.Schedule.Interval = d
	if cfg.Schedule.Backoff < d {
		cfg.Schedule.Backoff = d
	}
	return config.Validate(cfg)
}

// setupLogging routes the standard logger to log.file when configured.
// Without a file, output is discarded while a redrawing display owns the
// terminal and left on stderr otherwise.
func setupLogging(cfg config.LogConfig, redrawing bool) (func(), error) {
	if cfg.File != "" {
		f, err := tea.LogToFile(cfg.File, "")
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open log file "+cfg.File,
				"Check the directory exists and is writable, or unset log.file")
		}
		return func() { f.Close() }, nil
	}
	if redrawing {
		logger.Discard()
	}
	return func() {}, nil
}

// newAssembler opens every counter handle on this host.
func newAssembler(ctx context.Context, cfg *config.Config, log logger.Logger) (*monitor.Assembler, error) {
	reg, err := source.NewRegistry(ctx, source.NewHostProvider(), log, source.Options{
		Strict:            cfg.Source.Strict,
		IncludeLoopback:   cfg.Source.IncludeLoopback,
		ExcludeInterfaces: cfg.Source.ExcludeInterfaces,
	})
	if err != nil {
		return nil, err
	}
	return monitor.NewAssembler(reg, log, monitor.AssemblerOptions{
		SampleTimeout: cfg.Schedule.SampleTimeout,
	}), nil
}

func newView(cfg *config.Config) monitor.View {
	return monitor.View{
		Thresholds: monitor.Thresholds{
			Warning:  cfg.Display.WarningPercent,
			Critical: cfg.Display.CriticalPercent,
		},
		History: monitor.NewHistory(cfg.Display.History),
	}
}

func schedulerOptions(cfg *config.Config) monitor.SchedulerOptions {
	return monitor.SchedulerOptions{
		Interval: cfg.Schedule.Interval,
		Settle:   cfg.Schedule.Settle,
		Backoff:  cfg.Schedule.Backoff,
	}
}
