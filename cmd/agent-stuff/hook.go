package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/psg2/agent-stuff/internal/config"
	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/hooks"
	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/terminal"
)

// DirtyRepoInfo is the JSON form of the dirty-repo hook.
type DirtyRepoInfo struct {
	Dirty   bool           `json:"dirty"`
	Warning *hooks.Warning `json:"warning,omitempty"`
}

func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Agent lifecycle hooks",
		Long:  `Hooks run by the agent host at session start and at the end of each turn.`,
	}

	cmd.AddCommand(newHookDirtyRepoCmd())
	cmd.AddCommand(newHookNotifyCmd())

	return cmd
}

// hookInput reads the optional JSON payload when stdin is piped.
func hookInput(cmd *cobra.Command) (hooks.Input, error) {
	if terminal.IsTerminal(os.Stdin) {
		return hooks.Input{}, nil
	}

	in, err := hooks.ReadInput(cmd.InOrStdin())
	if err != nil {
		return hooks.Input{}, clierrors.Wrap(clierrors.ExitUsage, "Invalid hook input", err).
			WithHint("Pipe a JSON object with cwd, title and message, or nothing at all")
	}

	return in, nil
}

func newHookDirtyRepoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dirty-repo",
		Short: "Warn when the repository has uncommitted changes",
		Long: `Check the working directory (or the cwd from the hook payload) for
uncommitted changes and print a one-line warning listing the counts. Prints
nothing outside a repository, when git fails, or for a clean tree.`,
		Example: `  agent-stuff hook dirty-repo
  echo '{"cwd":"/src/app"}' | agent-stuff hook dirty-repo --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			in, err := hookInput(cmd)
			if err != nil {
				return err
			}

			dir := in.Cwd
			if dir == "" {
				dir, _ = os.Getwd()
			}

			warning, dirty := hooks.DirtyRepo(cmd.Context(), dir, cfg.GitTimeout())

			if out.JSON {
				info := DirtyRepoInfo{Dirty: dirty}
				if dirty {
					info.Warning = &warning
				}

				return out.PrintJSON(info)
			}

			if dirty {
				out.Warning("%s", warning.Message)
			}

			return nil
		},
	}
}

func newHookNotifyCmd() *cobra.Command {
	var (
		title   string
		message string
		bell    bool
		desktop bool
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Ring the terminal bell when a turn finishes",
		Long: `Alert the user that the agent is waiting. Rings the terminal bell and,
when enabled, sends an OSC 777 desktop notification that terminals such as
Ghostty show natively. Defaults come from notify.bell and notify.desktop.`,
		Example: `  agent-stuff hook notify
  agent-stuff hook notify --desktop --title pi --message "Waiting for input"`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			in, err := hookInput(cmd)
			if err != nil {
				return err
			}

			n := hooks.Notification{
				Title:   firstNonEmpty(title, in.Title),
				Body:    firstNonEmpty(message, in.Message, "Waiting for input"),
				Bell:    cfg.NotifyBell(),
				Desktop: cfg.NotifyDesktop(),
			}

			if cmd.Flags().Changed("bell") {
				n.Bell = bell
			}

			if cmd.Flags().Changed("desktop") {
				n.Desktop = desktop
			}

			w, closeTTY := notifyTarget(cmd.ErrOrStderr())
			defer closeTTY()

			if err := hooks.Notify(w, n); err != nil {
				return clierrors.Wrap(clierrors.ExitExecution, "Failed to send notification", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Notification title (default: hook payload title or agent-stuff)")
	cmd.Flags().StringVar(&message, "message", "", "Notification body")
	cmd.Flags().BoolVar(&bell, "bell", true, "Ring the terminal bell")
	cmd.Flags().BoolVar(&desktop, "desktop", false, "Send an OSC 777 desktop notification")

	return cmd
}

// openTTY opens the controlling terminal.
var openTTY = func() (io.WriteCloser, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}

// notifyTarget prefers the controlling terminal: hosts capture a hook's
// stdout and stderr, which would swallow the bell.
func notifyTarget(fallback io.Writer) (io.Writer, func()) {
	tty, err := openTTY()
	if err != nil {
		return fallback, func() {}
	}

	return tty, func() { _ = tty.Close() }
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
