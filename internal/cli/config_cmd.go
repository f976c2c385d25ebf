package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/topnet/internal/config"
	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd groups config file subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the config file",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value",
	Long: `Set a single dotted key in the config file, keeping comments and
layout. The result is validated before it is written.

Examples:
  topnet config set schedule.interval 2s
  topnet config set source.exclude_interfaces "[docker*, veth*]"
  topnet config set display.warning_percent 70`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSet(cmd.OutOrStdout(), cfgFile, args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long: `Print the config after defaults, the config file, and TOPNET_*
environment overrides are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShow(cmd.OutOrStdout(), cfgFile)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(cfgFile)
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (not created yet)\n", config.DefaultPath())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func configSet(w io.Writer, explicit, key, value string) error {
	path, err := config.Find(explicit)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'topnet init' to create one first")
	}

	if err := config.SetValue(path, strings.ToLower(key), value); err != nil {
		return err
	}
	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, path)
	return nil
}

func configShow(w io.Writer, explicit string) error {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Fprintln(w, "# no config file; showing defaults")
	} else {
		fmt.Fprintf(w, "# %s\n", path)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
