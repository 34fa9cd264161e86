package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/psg2/agent-stuff/internal/config"
	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/output"
)

// configHelp describes every key for 'config list'.
var configHelp = map[string]string{
	config.KeyFooterWidth:   "Footer width in cells (default: 0, the terminal width)",
	config.KeyGitTimeout:    "Timeout for git status queries (default: 2s)",
	config.KeyNotifyBell:    "Ring the bell in 'hook notify' (default: true)",
	config.KeyNotifyDesktop: "Send OSC 777 notifications in 'hook notify' (default: false)",
	config.KeySetupMode:     "Install mode for setup: link or copy (default: link)",
	config.KeySetupSource:   "Bundle directory for setup and doctor (default: ~/agent-stuff)",
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View and modify agent-stuff configuration settings.`,
	}

	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		Long:  `Display every configuration key with its current value, followed by a short description of each.`,
		Example: `  agent-stuff config list
  agent-stuff config list --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			if err := cfg.LoadError(); err != nil {
				return clierrors.ConfigFailed("read config", err)
			}

			settings := make(map[string]any, len(config.Keys()))
			for _, key := range config.Keys() {
				settings[key] = cfg.Get(key)
			}

			if out.JSON {
				return out.PrintJSON(settings)
			}

			keys := make([]string, 0, len(settings))
			for key := range settings {
				keys = append(keys, key)
			}

			sort.Strings(keys)

			for _, key := range keys {
				out.Print("%s = %v\n", key, settings[key])
			}

			out.Println()
			out.Println("Available settings:")

			for _, key := range keys {
				out.KeyValue(key, 14, configHelp[key])
			}

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Get a configuration value",
		Long:    `Retrieve and display the current value of a single configuration key.`,
		Example: `  agent-stuff config get setup.source`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			key := args[0]
			cfg := config.Load()
			value := cfg.Get(key)

			if value == nil {
				out.Muted("%s is not set", key)
				return nil
			}

			out.Print("%s = %v\n", key, value)

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a configuration value",
		Long:    `Set a configuration key to the given value. The value is persisted to the config file.`,
		Example: `  agent-stuff config set setup.source ~/src/agent-stuff`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			key, value := args[0], args[1]

			if !config.IsKnownKey(key) {
				return clierrors.New(clierrors.ExitUsage, "Unknown configuration key: "+key).
					WithHint("Run 'agent-stuff config list' to see available settings")
			}

			cfg := config.Load()

			if err := cfg.Set(key, value); err != nil {
				return clierrors.ConfigFailed("set config", err)
			}

			out.Success("Set %s = %s", key, value)

			return nil
		},
	}
}
