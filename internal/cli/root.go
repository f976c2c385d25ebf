package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile      string
	plainFlag    bool
	intervalFlag string
)

// rootCmd runs the live monitor when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "topnet",
	Short: "Live terminal monitor for CPU, memory, disk and network",
	Long: `topnet samples this machine's CPU, memory, disk and network counters
once per second and renders them as a continuously refreshed dashboard.

Rates (disk throughput, network traffic, CPU usage) are derived from counter
deltas, so the first second after startup is spent warming up.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Sample now
  ?           Show help
  up/k        Scroll up
  down/j      Scroll down

Examples:
  topnet
  topnet --plain
  topnet --interval 2s
  topnet snapshot --format json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), monitorOptions{
			ConfigPath: cfgFile,
			Plain:      plainFlag,
			Interval:   intervalFlag,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/topnet/config.yaml)")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "redraw with plain terminal output instead of the full-screen dashboard")
	rootCmd.Flags().StringVar(&intervalFlag, "interval", "", "sampling interval (e.g., 1s, 2s, 500ms)")
}

// Execute runs the root command. Interrupt and SIGTERM cancel the command
// context, which stops the monitor loop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if isUnknownCommandError(err) {
			msg := err.Error()
			if name := extractUnknownCommand(err); name != "" {
				msg = fmt.Sprintf("Unknown command '%s'", name)
			}
			err = errors.New(errors.ErrExec, msg, "Run 'topnet --help' to see available commands and flags")
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

var unknownCommandPattern = regexp.MustCompile(`^unknown command "([^"]+)"`)

// extractUnknownCommand returns the quoted command name from a cobra
// "unknown command" error, or "" when there is none.
func extractUnknownCommand(err error) string {
	m := unknownCommandPattern.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
