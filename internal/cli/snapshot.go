package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/logger"
	"github.com/rileyhilliard/topnet/internal/monitor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats for the snapshot command
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var snapshotFormat string

// snapshotCmd prints a single snapshot and exits
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one snapshot and exit",
	Long: `Take one snapshot of this machine and print it.

The warm-up sample and settle wait still happen, so rates are real
per-second figures rather than zeros.

Examples:
  topnet snapshot
  topnet snapshot --format json | jq .cpu.total_percent
  topnet snapshot --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.Context(), cmd.OutOrStdout(), cfgFile, snapshotFormat)
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "o", formatText, "output format: text, json, or yaml")
}

func snapshotCommand(ctx context.Context, w io.Writer, configPath, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	err := takeSnapshot(ctx, w, configPath, format)
	if err != nil && format == formatJSON {
		// Keep stdout parseable; the error still goes to stderr via Execute.
		_ = WriteJSONFromError(w, err)
	}
	return err
}

func takeSnapshot(ctx context.Context, w io.Writer, configPath, format string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("topnet")
	asm, err := newAssembler(ctx, cfg, log)
	if err != nil {
		return err
	}

	sched := monitor.NewScheduler(asm, nil, log, schedulerOptions(cfg))
	snap, err := sched.Once(ctx)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCollect,
			"Couldn't take a snapshot",
			"Run with TOPNET_DEBUG=1 to see which counters failed")
	}

	return writeSnapshot(w, snap, format, newView(cfg), outputWidth(w))
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown format '%s'", format),
		"Use --format text, json, or yaml")
}

// writeSnapshot encodes snap in the requested format.
func writeSnapshot(w io.Writer, snap *monitor.Snapshot, format string, view monitor.View, width int) error {
	switch format {
	case formatJSON:
		return WriteJSONSuccess(w, monitor.NewReport(snap))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(monitor.NewReport(snap)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, view.Render(snap, width))
		return err
	}
}

// outputWidth returns the terminal width when w is a terminal, else 0 so
// the renderer uses its default.
func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
