package setup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/linking"
	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/picker"
	"github.com/psg2/agent-stuff/internal/prompt"
	"github.com/psg2/agent-stuff/internal/terminal"
)

const testManifest = `entries:
  - name: ghostty
    description: Ghostty terminal config
    source: ghostty/config
    target: ~/.config/ghostty/config
  - name: pi-settings
    description: pi agent settings
    source: pi/settings.json
    target: ~/.pi/agent/settings.json
`

type harness struct {
	source string
	home   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	setup  *Setup
	picked []picker.Item
}

func newHarness(t *testing.T, interactive bool, answers string) *harness {
	t.Helper()

	h := &harness{
		source: t.TempDir(),
		home:   t.TempDir(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	files := map[string]string{
		"agent-stuff.yaml": testManifest,
		"ghostty/config":   "theme = dark\n",
		"pi/settings.json": "{}\n",
	}

	for name, content := range files {
		path := filepath.Join(h.source, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	term := &terminal.Info{NoColor: true, Width: 80, Height: 24}
	if interactive {
		term.StdinTTY, term.StderrTTY = true, true
	}

	out := output.NewWriter(h.stdout, h.stderr, term)
	h.setup = New(out, prompt.NewWithReader(out, strings.NewReader(answers)))

	return h
}

func (h *harness) withPick(res picker.Result) {
	h.setup.WithPicker(func(_ context.Context, items []picker.Item, _ picker.Options) (picker.Result, error) {
		h.picked = items
		return res, nil
	})
}

func (h *harness) opts() Options {
	return Options{Source: h.source, Home: h.home, Mode: linking.ModeLink}
}

func (h *harness) target(rel string) string {
	return filepath.Join(h.home, rel)
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) {
		t.Fatalf("error = %v (%T), want CLIError", err, err)
	}

	if cliErr.Code != code {
		t.Fatalf("exit code = %d, want %d (%s)", cliErr.Code, code, cliErr.Message)
	}
}

func TestRun_NamedEntriesWithForce(t *testing.T) {
	h := newHarness(t, false, "")

	opts := h.opts()
	opts.Names = []string{"ghostty"}
	opts.Force = true

	report, err := h.setup.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	dest, err := os.Readlink(h.target(".config/ghostty/config"))
	if err != nil {
		t.Fatalf("target not linked: %v", err)
	}

	if want := filepath.Join(h.source, "ghostty", "config"); dest != want {
		t.Errorf("link = %q, want %q", dest, want)
	}

	if _, err := os.Lstat(h.target(".pi/agent/settings.json")); !os.IsNotExist(err) {
		t.Error("unselected entry was installed")
	}

	if len(report.Entries) != 1 || !report.Entries[0].Changed || report.Entries[0].Action != "create" {
		t.Errorf("report entries = %+v", report.Entries)
	}

	if !strings.Contains(h.stdout.String(), "agent-stuff doctor") {
		t.Errorf("next steps missing from output:\n%s", h.stdout.String())
	}
}

func TestRun_PickerSelectionAndConfirm(t *testing.T) {
	h := newHarness(t, true, "y\n")
	h.withPick(picker.Result{Selected: []string{"pi-settings"}})

	if _, err := h.setup.Run(context.Background(), h.opts()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(h.picked) != 2 || h.picked[0].Name != "ghostty" || h.picked[0].Description == "" {
		t.Errorf("picker items = %+v", h.picked)
	}

	if _, err := os.Readlink(h.target(".pi/agent/settings.json")); err != nil {
		t.Errorf("picked entry not linked: %v", err)
	}

	if _, err := os.Lstat(h.target(".config/ghostty/config")); !os.IsNotExist(err) {
		t.Error("unpicked entry was installed")
	}

	if !strings.Contains(h.stderr.String(), "Apply 1 change? [Y/n]") {
		t.Errorf("confirmation prompt missing: %q", h.stderr.String())
	}
}

func TestRun_PickerCancelled(t *testing.T) {
	h := newHarness(t, true, "")
	h.withPick(picker.Result{Selected: []string{}, Cancelled: true})

	_, err := h.setup.Run(context.Background(), h.opts())
	assertCode(t, err, clierrors.ExitCancelled)

	if _, statErr := os.Lstat(h.target(".config/ghostty/config")); !os.IsNotExist(statErr) {
		t.Error("cancelled run installed files")
	}
}

func TestRun_ConfirmDeclined(t *testing.T) {
	h := newHarness(t, true, "n\n")

	opts := h.opts()
	opts.All = true

	_, err := h.setup.Run(context.Background(), opts)
	assertCode(t, err, clierrors.ExitCancelled)

	if _, statErr := os.Lstat(h.target(".config/ghostty/config")); !os.IsNotExist(statErr) {
		t.Error("declined run installed files")
	}
}

func TestRun_NonInteractiveNeedsAllOrNames(t *testing.T) {
	h := newHarness(t, false, "")

	_, err := h.setup.Run(context.Background(), h.opts())
	assertCode(t, err, clierrors.ExitUsage)

	if !strings.Contains(err.Error(), "non-interactive") {
		t.Errorf("error = %v", err)
	}
}

func TestRun_UnknownName(t *testing.T) {
	h := newHarness(t, false, "")

	opts := h.opts()
	opts.Names = []string{"ghostty", "zed"}

	_, err := h.setup.Run(context.Background(), opts)
	assertCode(t, err, clierrors.ExitUsage)

	if !strings.Contains(err.Error(), "zed") {
		t.Errorf("error = %v, want the unknown name", err)
	}
}

func TestRun_DryRunChangesNothing(t *testing.T) {
	h := newHarness(t, false, "")

	opts := h.opts()
	opts.All = true
	opts.DryRun = true

	report, err := h.setup.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Entries) != 2 {
		t.Fatalf("report entries = %+v", report.Entries)
	}

	for _, e := range report.Entries {
		if !e.Changed {
			t.Errorf("%s: dry run should report the pending change", e.Name)
		}

		if _, statErr := os.Lstat(e.Target); !os.IsNotExist(statErr) {
			t.Errorf("%s: dry run touched %s", e.Name, e.Target)
		}
	}

	if !strings.Contains(h.stdout.String(), "Dry run") {
		t.Errorf("output = %q", h.stdout.String())
	}
}

func TestRun_BacksUpExistingFile(t *testing.T) {
	h := newHarness(t, false, "")

	existing := h.target(".config/ghostty/config")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(existing, []byte("old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	opts := h.opts()
	opts.Names = []string{"ghostty"}

	report, err := h.setup.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := report.Entries[0].Backup; got != existing+".bak" {
		t.Errorf("backup = %q", got)
	}

	data, err := os.ReadFile(existing + ".bak")
	if err != nil || string(data) != "old\n" {
		t.Errorf("backup content = %q, %v", data, err)
	}

	if !strings.Contains(h.stdout.String(), "previous file saved") {
		t.Errorf("output = %q", h.stdout.String())
	}
}

func TestRun_AlreadyInstalled(t *testing.T) {
	h := newHarness(t, false, "")

	opts := h.opts()
	opts.All = true

	if _, err := h.setup.Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	h.stdout.Reset()

	report, err := h.setup.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if !strings.Contains(h.stdout.String(), "already installed") {
		t.Errorf("output = %q", h.stdout.String())
	}

	for _, e := range report.Entries {
		if e.Changed {
			t.Errorf("%s reported a change on the second run", e.Name)
		}
	}
}

func TestRun_MissingSource(t *testing.T) {
	h := newHarness(t, false, "")

	opts := h.opts()
	opts.Source = filepath.Join(h.source, "missing")
	opts.All = true

	_, err := h.setup.Run(context.Background(), opts)
	assertCode(t, err, clierrors.ExitConfig)
}
