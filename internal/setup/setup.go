// Package setup runs the bundle installation flow:
//  1. Locate the bundle and its manifest
//  2. Pick entries (checklist, --all, or names)
//  3. Show the plan and confirm
//  4. Link or copy with backups
//  5. Next steps guidance
package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/linking"
	"github.com/psg2/agent-stuff/internal/observability"
	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/picker"
	"github.com/psg2/agent-stuff/internal/prompt"
)

// Options controls one setup run.
type Options struct {
	Source string
	Home   string
	Mode   linking.Mode
	// Names restricts the run to these entries and skips the checklist.
	Names  []string
	All    bool
	DryRun bool
	Force  bool
}

// PickFunc shows the checklist and returns the chosen entry names.
type PickFunc func(ctx context.Context, items []picker.Item, opts picker.Options) (picker.Result, error)

// EntryReport is the outcome for one entry.
type EntryReport struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Action  string `json:"action"`
	Changed bool   `json:"changed"`
	Backup  string `json:"backup,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report summarises a run for JSON output.
type Report struct {
	Source   string        `json:"source"`
	Manifest string        `json:"manifest"`
	Mode     linking.Mode  `json:"mode"`
	DryRun   bool          `json:"dry_run"`
	Entries  []EntryReport `json:"entries"`
}

// Setup handles the installation flow.
type Setup struct {
	out      *output.Writer
	prompter *prompt.Prompter
	pick     PickFunc
}

// New creates a setup flow that draws the checklist on stderr.
func New(out *output.Writer, prompter *prompt.Prompter) *Setup {
	return &Setup{
		out:      out,
		prompter: prompter,
		pick: func(ctx context.Context, items []picker.Item, opts picker.Options) (picker.Result, error) {
			return picker.Run(ctx, os.Stdin, out.Err, items, opts)
		},
	}
}

// WithPicker replaces the checklist driver.
func (s *Setup) WithPicker(pick PickFunc) *Setup {
	s.pick = pick
	return s
}

// Manifest loads and validates the manifest of the bundle at source.
func Manifest(source string) (linking.Manifest, string, error) {
	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return linking.Manifest{}, "", clierrors.SourceNotFound(source)
	}

	m, path, err := linking.LoadManifest(source)
	if err != nil {
		return linking.Manifest{}, path, clierrors.ManifestInvalid(path, err)
	}

	return m, path, nil
}

// Run executes the flow and reports what happened.
func (s *Setup) Run(ctx context.Context, opts Options) (Report, error) {
	logger := observability.FromContext(ctx)

	report := Report{Source: opts.Source, Mode: opts.Mode, DryRun: opts.DryRun}
	if report.Mode == "" {
		report.Mode = linking.ModeLink
	}

	m, manifestPath, err := Manifest(opts.Source)
	if err != nil {
		return report, err
	}

	report.Manifest = manifestPath
	if manifestPath == "" {
		report.Manifest = "built-in"
	}

	entries, err := s.selectEntries(ctx, m, opts)
	if err != nil {
		return report, err
	}

	if len(entries) == 0 {
		s.out.Muted("Nothing selected.")
		return report, nil
	}

	ops, err := linking.Plan(opts.Source, opts.Home, entries, report.Mode)
	if err != nil {
		return report, clierrors.Wrap(clierrors.ExitExecution, "Failed to inspect install targets", err)
	}

	s.showPlan(ops)

	pending := 0
	for _, op := range ops {
		if !op.Action.Skip() {
			pending++
		}
	}

	logger.Info("setup planned",
		slog.String("setup.source", opts.Source),
		slog.String("setup.mode", string(report.Mode)),
		slog.Int("setup.entries", len(ops)),
		slog.Int("setup.pending", pending),
	)

	if pending == 0 {
		report.Entries = reportEntries(linking.Apply(ops, linking.Options{Mode: report.Mode, DryRun: true}))
		s.out.Println()
		s.out.Success("Everything is already installed")

		return report, nil
	}

	if !opts.DryRun && !opts.Force && s.prompter.CanPrompt() {
		s.out.Println()

		ok, confirmErr := s.prompter.Confirm(fmt.Sprintf("Apply %d change%s?", pending, plural(pending)), true)
		if confirmErr != nil && !prompt.IsCanceled(confirmErr) {
			return report, confirmErr
		}

		if !ok || confirmErr != nil {
			return report, clierrors.Cancelled("Setup")
		}
	}

	results := s.apply(ops, linking.Options{Mode: report.Mode, DryRun: opts.DryRun})
	report.Entries = reportEntries(results)

	failed, firstErr := 0, error(nil)

	for _, r := range results {
		if r.Err == nil {
			continue
		}

		failed++

		if firstErr == nil {
			firstErr = r.Err
		}

		logger.Warn("setup entry failed", slog.String("entry", r.Op.Entry.Name), slog.String("error", r.Err.Error()))
	}

	s.showResults(results, opts.DryRun)

	if failed > 0 {
		return report, clierrors.LinkFailed(failed, firstErr)
	}

	if !opts.DryRun {
		s.showNextSteps()
	}

	return report, nil
}

func (s *Setup) selectEntries(ctx context.Context, m linking.Manifest, opts Options) ([]linking.Entry, error) {
	if len(opts.Names) > 0 {
		entries := m.Select(opts.Names)
		if len(entries) != len(dedupe(opts.Names)) {
			return nil, clierrors.NoManifestEntries(missingNames(m, opts.Names))
		}

		return entries, nil
	}

	if opts.All {
		return m.Entries, nil
	}

	if !s.prompter.CanPrompt() {
		return nil, clierrors.CannotPrompt("pass --all or entry names")
	}

	items := make([]picker.Item, 0, len(m.Entries))
	for _, e := range m.Entries {
		items = append(items, picker.Item{Name: e.Name, Description: e.Description})
	}

	res, err := s.pick(ctx, items, picker.Options{
		Title: "Select what to install",
		Width: s.out.Terminal().Width,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, clierrors.Cancelled("Setup")
		}

		return nil, clierrors.Wrap(clierrors.ExitGeneral, "Checklist failed", err)
	}

	if res.Cancelled {
		return nil, clierrors.Cancelled("Setup")
	}

	return m.Select(res.Selected), nil
}

func (s *Setup) showPlan(ops []linking.Op) {
	width := 0
	for _, op := range ops {
		width = max(width, len(op.Entry.Name))
	}

	s.out.Heading("Plan")

	for _, op := range ops {
		s.out.KeyValue(op.Entry.Name, width, fmt.Sprintf("%-14s %s", op.Action, op.TargetPath))
	}
}

func (s *Setup) apply(ops []linking.Op, opts linking.Options) []linking.Result {
	if opts.DryRun {
		return linking.Apply(ops, opts)
	}

	s.out.Println()

	verb := "Linking"
	if opts.Mode == linking.ModeCopy {
		verb = "Copying"
	}

	spin := s.out.Spinner(verb + " bundle files")
	spin.Start()

	results := linking.Apply(ops, opts)

	for _, r := range results {
		if r.Err != nil {
			spin.StopWithFailure("Some entries failed")
			return results
		}
	}

	spin.StopWithSuccess("Installed")

	return results
}

func (s *Setup) showResults(results []linking.Result, dryRun bool) {
	if dryRun {
		s.out.Println()
		s.out.Info("Dry run: no changes made")

		return
	}

	for _, r := range results {
		switch {
		case r.Err != nil:
			s.out.Failure("%s: %v", r.Op.Entry.Name, r.Err)
		case r.BackupPath != "":
			s.out.Warning("%s: previous file saved to %s", r.Op.Entry.Name, r.BackupPath)
		}
	}
}

func (s *Setup) showNextSteps() {
	s.out.Println()
	s.out.Println("Next steps:")
	s.out.Print("  agent-stuff doctor    Verify links and tools\n")
	s.out.Print("  agent-stuff ask       Try the question dialog\n")
}

func reportEntries(results []linking.Result) []EntryReport {
	entries := make([]EntryReport, 0, len(results))

	for _, r := range results {
		e := EntryReport{
			Name:    r.Op.Entry.Name,
			Source:  r.Op.SourcePath,
			Target:  r.Op.TargetPath,
			Action:  r.Op.Action.String(),
			Changed: r.Changed,
			Backup:  r.BackupPath,
		}

		if r.Err != nil {
			e.Error = r.Err.Error()
		}

		entries = append(entries, e)
	}

	return entries
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	return out
}

func missingNames(m linking.Manifest, names []string) []string {
	known := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		known[e.Name] = true
	}

	var missing []string

	for _, n := range dedupe(names) {
		if !known[n] {
			missing = append(missing, n)
		}
	}

	return missing
}

func plural(n int) string {
	if n == 1 {
		return ""
	}

	return "s"
}
