package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/psg2/agent-stuff/internal/buildinfo"
	"github.com/psg2/agent-stuff/internal/config"
	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/doctor"
	"github.com/psg2/agent-stuff/internal/output"
)

// DoctorReport is the JSON form of the doctor command.
type DoctorReport struct {
	Version  string          `json:"version"`
	Results  []doctor.Result `json:"results"`
	Passed   int             `json:"passed"`
	Failed   int             `json:"failed"`
	Warnings int             `json:"warnings"`
}

func newDoctorCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks to identify setup and environment issues.

Checks performed:
  - git availability and version (2.11 or newer)
  - an interactive terminal for ask and setup
  - the bundle directory and its manifest
  - the link state of every manifest entry`,
		Example: `  agent-stuff doctor
  agent-stuff doctor --source ~/src/agent-stuff --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			src, err := resolveSource(source, cfg)
			if err != nil {
				return err
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return clierrors.Wrap(clierrors.ExitConfig, "Cannot determine home directory", err)
			}

			results := doctor.New(doctor.Env{
				Source:   src,
				Home:     home,
				Terminal: out.Terminal(),
			}).Run(cmd.Context())

			passed, failed, warnings := doctor.Summary(results)

			if out.JSON {
				return out.PrintJSON(DoctorReport{
					Version:  buildinfo.String(),
					Results:  results,
					Passed:   passed,
					Failed:   failed,
					Warnings: warnings,
				})
			}

			renderDoctor(out, results)

			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Bundle directory (default: setup.source or ~/agent-stuff)")

	return cmd
}

func renderDoctor(out *output.Writer, results []doctor.Result) {
	out.Heading("agent-stuff doctor %s", buildinfo.String())
	out.Println()

	doctor.RenderResults(results, out)

	passed, failed, warnings := doctor.Summary(results)

	out.Println()
	out.Print("%d passed", passed)

	if failed > 0 {
		out.Print(", %d failed", failed)
	}

	if warnings > 0 {
		out.Print(", %d warning(s)", warnings)
	}

	out.Println()
}
