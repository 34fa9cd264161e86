package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/psg2/agent-stuff/internal/config"
	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/footer"
	"github.com/psg2/agent-stuff/internal/gitstatus"
	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/terminal"
)

// FooterInfo is the JSON form of a rendered footer.
type FooterInfo struct {
	Line     string          `json:"line"`
	Snapshot footer.Snapshot `json:"snapshot"`
}

func newFooterCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "footer",
		Short: "Render the agent status footer line",
		Long: `Print one footer line: the working directory and git state on the left,
model, token usage, cost and context use on the right.

A host can pipe a JSON snapshot on stdin (cwd, model, inputTokens,
outputTokens, costUsd, contextPercent). Git data is read from the working
directory when the snapshot does not carry it.`,
		Example: `  agent-stuff footer
  echo '{"model":"sonnet","inputTokens":12000,"costUsd":0.12}' | agent-stuff footer --width 100`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			var stdin io.Reader
			if !terminal.IsTerminal(os.Stdin) {
				stdin = cmd.InOrStdin()
			}

			snap, err := readSnapshot(stdin)
			if err != nil {
				return clierrors.Wrap(clierrors.ExitUsage, "Invalid footer snapshot", err).
					WithHint("Pipe a JSON object such as {\"model\":\"sonnet\",\"inputTokens\":1200}")
			}

			if snap.Cwd == "" {
				if wd, wdErr := os.Getwd(); wdErr == nil {
					snap.Cwd = wd
				}
			}

			if snap.Git.Branch == "" && snap.Cwd != "" {
				// Outside a repository the git segment stays empty.
				if s, gitErr := gitstatus.Query(cmd.Context(), snap.Cwd, cfg.GitTimeout()); gitErr == nil {
					snap.Git = s
				}
			}

			if !cmd.Flags().Changed("width") {
				width = cfg.FooterWidth()
			}

			if width == 0 {
				width = terminal.Width(os.Stdout, 0)
			}

			styles := footer.Styles{}
			if out.Terminal().ColorEnabled() {
				styles = footer.DefaultStyles()
			}

			home, _ := os.UserHomeDir()
			line := footer.Render(snap, width, home, styles)

			if out.JSON {
				return out.PrintJSON(FooterInfo{Line: line, Snapshot: snap})
			}

			out.Println(line)

			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Footer width in cells (default: footer.width or the terminal width)")

	return cmd
}

// readSnapshot decodes an optional snapshot; no input gives a zero value.
func readSnapshot(r io.Reader) (footer.Snapshot, error) {
	var snap footer.Snapshot

	if r == nil {
		return snap, nil
	}

	if err := json.NewDecoder(r).Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return footer.Snapshot{}, err
	}

	return snap, nil
}
