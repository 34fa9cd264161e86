package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psg2/agent-stuff/internal/config"
	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/paths"
)

// PathsInfo holds all resolved paths for JSON output.
type PathsInfo struct {
	ConfigRoot string `json:"config_root"`
	StateRoot  string `json:"state_root"`
	ConfigFile string `json:"config_file"`
	LogFile    string `json:"log_file"`
	BundleDir  string `json:"bundle_dir"`
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where agent-stuff stores files",
		Long: `Display all file and directory paths used by agent-stuff.

Useful for debugging and scripting: shows where configuration, logs and the
setup bundle are expected on this system.`,
		Example: `  agent-stuff paths
  agent-stuff paths --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			info := resolvePathsInfo()

			if out.JSON {
				return out.PrintJSON(info)
			}

			out.Print("Config root:    %s\n", info.ConfigRoot)
			out.Print("State root:     %s\n", info.StateRoot)
			out.Print("\n")
			out.Print("Config file:    %s\n", info.ConfigFile)
			out.Print("Log file:       %s\n", info.LogFile)
			out.Print("Bundle dir:     %s\n", info.BundleDir)

			return nil
		},
	}
}

func resolvePathsInfo() PathsInfo {
	info := PathsInfo{}

	info.ConfigRoot = resolveOrError(paths.ConfigRoot)
	info.StateRoot = resolveOrError(paths.StateRoot)
	info.ConfigFile = resolveOrError(paths.ConfigFile)
	info.LogFile = resolveOrError(paths.DefaultLogFile)

	info.BundleDir = resolveOrError(func() (string, error) {
		if src := config.Load().SetupSource(); src != "" {
			return src, nil
		}

		return paths.DefaultBundleDir()
	})

	return info
}

func resolveOrError(fn func() (string, error)) string {
	val, err := fn()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	return val
}
