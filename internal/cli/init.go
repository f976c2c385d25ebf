package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/topnet/internal/config"
	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string    // Where to write the config; empty means config.DefaultPath()
	Overwrite      bool      // Overwrite existing config without asking
	NonInteractive bool      // Skip prompts, use defaults
	Out            io.Writer // Progress messages; nil means stdout
}

var (
	initForce          bool
	initNonInteractive bool
)

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a topnet config file",
	Long: `Create a config file with the sampling interval, display and
interface settings.

The file is written to --config when given, otherwise to
$XDG_CONFIG_HOME/topnet/config.yaml (or ~/.config/topnet/config.yaml).
Prompts are skipped with --non-interactive or when CI is set.

Examples:
  topnet init
  topnet init --force
  topnet init --non-interactive --config ./topnet.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Path:           cfgFile,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive || nonInteractiveEnv(),
			Out:            cmd.OutOrStdout(),
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "write defaults without prompting")
}

// nonInteractiveEnv reports whether the environment asks for no prompts.
func nonInteractiveEnv() bool {
	if v, err := strconv.ParseBool(os.Getenv("TOPNET_NON_INTERACTIVE")); err == nil && v {
		return true
	}
	return os.Getenv("CI") != ""
}

// Init creates a new config file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	configPath := opts.Path
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(configPath, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "Created %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  topnet                    - Start the live monitor")
	fmt.Fprintln(out, "  topnet snapshot           - Print one snapshot")
	fmt.Fprintln(out, "  topnet config set <k> <v> - Change a setting")
	return nil
}

// promptConfig asks for the commonly changed settings, starting from cfg.
func promptConfig(cfg *config.Config) error {
	interval := cfg.Schedule.Interval.String()
	exclude := strings.Join(cfg.Source.ExcludeInterfaces, ", ")
	includeLoopback := cfg.Source.IncludeLoopback
	altScreen := cfg.Display.AltScreen
	plain := cfg.Display.Plain

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sampling interval").
				Description("How often counters are read and the screen redrawn").
				Placeholder("1s").
				Value(&interval).
				Validate(validateInterval),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show loopback interfaces?").
				Value(&includeLoopback),
			huh.NewInput().
				Title("Interfaces to hide (optional)").
				Description("Comma-separated name globs, e.g. docker*, veth*").
				Value(&exclude),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use plain output instead of the full-screen dashboard?").
				Value(&plain),
			huh.NewConfirm().
				Title("Run the dashboard in the alternate screen?").
				Value(&altScreen),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	d, err := time.ParseDuration(strings.TrimSpace(interval))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid interval", "Try something like 1s or 500ms.")
	}
	cfg.Schedule.Interval = d
	if cfg.Schedule.Backoff < d {
		cfg.Schedule.Backoff = d
	}
	cfg.Source.IncludeLoopback = includeLoopback
	cfg.Source.ExcludeInterfaces = splitList(exclude)
	cfg.Display.Plain = plain
	cfg.Display.AltScreen = altScreen
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a duration; try 1s or 500ms")
	}
	if d < config.MinInterval {
		return fmt.Errorf("interval must be at least %s", config.MinInterval)
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
