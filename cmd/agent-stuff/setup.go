package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/psg2/agent-stuff/internal/config"
	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/linking"
	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/paths"
	"github.com/psg2/agent-stuff/internal/prompt"
	"github.com/psg2/agent-stuff/internal/setup"
	"github.com/psg2/agent-stuff/internal/tui/render"
)

func newSetupCmd() *cobra.Command {
	var (
		copyFiles bool
		all       bool
		dryRun    bool
		force     bool
		list      bool
		source    string
	)

	cmd := &cobra.Command{
		Use:   "setup [entry...]",
		Short: "Link bundled configs into their standard locations",
		Long: `Install the bundle's files (terminal config, agent settings, extensions)
into your home directory. A checklist picks the entries unless names or --all
are given. Existing files are moved aside to <target>.bak before anything is
replaced, and a confirmation guards the run unless --force is set.

The bundle directory comes from --source, the setup.source setting, or
~/agent-stuff. Entries are read from agent-stuff.yaml or agent-stuff.toml at
its root, falling back to the built-in list.`,
		Example: `  agent-stuff setup
  agent-stuff setup --all --dry-run
  agent-stuff setup ghostty pi-settings --copy -f
  agent-stuff setup --list --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			src, err := resolveSource(source, cfg)
			if err != nil {
				return err
			}

			if list {
				return listEntries(out, src)
			}

			modeName := cfg.SetupMode()
			if copyFiles {
				modeName = string(linking.ModeCopy)
			}

			mode, err := linking.ParseMode(modeName)
			if err != nil {
				return clierrors.Wrap(clierrors.ExitConfig, "Invalid setup.mode", err).
					WithHint("Run 'agent-stuff config set setup.mode link' (or copy)")
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return clierrors.Wrap(clierrors.ExitConfig, "Cannot determine home directory", err)
			}

			report, runErr := setup.New(out, prompt.New(out)).Run(cmd.Context(), setup.Options{
				Source: src,
				Home:   home,
				Mode:   mode,
				Names:  args,
				All:    all,
				DryRun: dryRun,
				Force:  force,
			})

			if out.JSON && report.Entries != nil {
				if err := out.PrintJSON(report); err != nil {
					return err
				}
			}

			return runErr
		},
	}

	cmd.Flags().BoolVar(&copyFiles, "copy", false, "Copy files instead of symlinking")
	cmd.Flags().BoolVar(&all, "all", false, "Install every entry without the checklist")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without changing anything")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&list, "list", false, "List the bundle's entries and exit")
	cmd.Flags().StringVar(&source, "source", "", "Bundle directory (default: setup.source or ~/agent-stuff)")

	return cmd
}

// resolveSource picks the bundle directory: flag, then config, then default.
func resolveSource(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		expanded, err := paths.ExpandUserHome(flagValue)
		if err != nil {
			return "", clierrors.Wrap(clierrors.ExitConfig, "Cannot expand --source", err)
		}

		return expanded, nil
	}

	if configured := cfg.SetupSource(); configured != "" {
		return configured, nil
	}

	dir, err := paths.DefaultBundleDir()
	if err != nil {
		return "", clierrors.Wrap(clierrors.ExitConfig, "Cannot determine bundle directory", err)
	}

	return dir, nil
}

func listEntries(out *output.Writer, source string) error {
	m, _, err := setup.Manifest(source)
	if err != nil {
		return err
	}

	if out.JSON {
		return out.PrintJSON(m)
	}

	width := 0
	for _, e := range m.Entries {
		width = max(width, len(e.Name))
	}

	// "  name  description" must fit one terminal row.
	room := out.Terminal().Width - width - 4

	for _, e := range m.Entries {
		desc := e.Description
		if room > 0 {
			desc = render.TruncatePlain(desc, room)
		}

		out.KeyValue(e.Name, width, desc)
	}

	return nil
}
