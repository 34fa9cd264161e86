// Package doctor provides diagnostic checks for an agent-stuff install.
//
// This package implements a check framework that validates:
//   - git availability and version
//   - an interactive terminal for the wizard and picker
//   - the bundle source directory and its manifest
//   - the link state of every manifest entry
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/psg2/agent-stuff/internal/gitstatus"
	"github.com/psg2/agent-stuff/internal/linking"
	"github.com/psg2/agent-stuff/internal/terminal"
)

// MinGitVersion is the oldest git that accepts the --porcelain=v1 form gitstatus runs.
const MinGitVersion = "2.11.0"

// Status represents the result of a diagnostic check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical failure.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result holds the outcome of a single check.
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Check is a diagnostic check function.
type Check func(ctx context.Context) Result

// Env is what the default checks inspect.
type Env struct {
	// Source is the bundle directory.
	Source string
	// Home expands "~/" targets.
	Home     string
	Terminal *terminal.Info
	// GitVersion reports the installed git version; nil uses gitstatus.Version.
	GitVersion func(ctx context.Context) (string, error)
}

// Runner executes diagnostic checks.
type Runner struct {
	checks []namedCheck
}

type namedCheck struct {
	name  string
	check Check
}

// New creates a runner with the default checks for env. Link checks are
// added per manifest entry when the bundle and its manifest are readable.
func New(env Env) *Runner {
	r := &Runner{}

	gitVersion := env.GitVersion
	if gitVersion == nil {
		gitVersion = gitstatus.Version
	}

	r.AddCheck("Git", func(ctx context.Context) Result { return checkGit(ctx, gitVersion) })
	r.AddCheck("Terminal", func(context.Context) Result { return checkTerminal(env.Terminal) })

	manifest, bundle := inspectBundle(env.Source)
	r.AddCheck("Bundle", func(context.Context) Result { return bundle })

	if bundle.Status == StatusFail {
		return r
	}

	ops, err := linking.Plan(env.Source, env.Home, manifest.Entries, linking.ModeLink)
	if err != nil {
		r.AddCheck("Links", func(context.Context) Result {
			return Result{Status: StatusFail, Message: "Could not inspect targets", Detail: err.Error()}
		})

		return r
	}

	for _, op := range ops {
		r.AddCheck(op.Entry.Name, func(context.Context) Result { return checkLink(op) })
	}

	return r
}

// AddCheck registers a diagnostic check.
func (r *Runner) AddCheck(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

// Run executes all registered checks and returns the results.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.checks))

	for _, nc := range r.checks {
		result := nc.check(ctx)
		result.Name = nc.name
		results = append(results, result)
	}

	return results
}

// Summary returns counts of passed, failed, and warning checks.
func Summary(results []Result) (passed, failed, warnings int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusWarn:
			warnings++
		}
	}

	return passed, failed, warnings
}

var versionCore = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

func checkGit(ctx context.Context, version func(context.Context) (string, error)) Result {
	path, err := exec.LookPath("git")
	if err != nil {
		return Result{
			Status:  StatusFail,
			Message: "Not found in PATH",
			Detail:  "The footer and dirty-repo hook need git",
		}
	}

	raw, err := version(ctx)
	if err != nil {
		return Result{Status: StatusWarn, Message: "Found but version unknown", Detail: err.Error()}
	}

	return gitVersionResult(raw, path)
}

func gitVersionResult(raw, path string) Result {
	// Vendor builds append suffixes like ".windows.1".
	core := versionCore.FindString(raw)

	v, err := semver.NewVersion(core)
	if err != nil {
		return Result{Status: StatusWarn, Message: fmt.Sprintf("%s at %s", raw, path), Detail: "Unrecognised version"}
	}

	constraint, err := semver.NewConstraint(">= " + MinGitVersion)
	if err != nil {
		return Result{Status: StatusWarn, Message: raw, Detail: err.Error()}
	}

	if !constraint.Check(v) {
		return Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s at %s", raw, path),
			Detail:  fmt.Sprintf("git %s or newer is required", MinGitVersion),
		}
	}

	return Result{Status: StatusPass, Message: fmt.Sprintf("%s at %s", raw, path)}
}

func checkTerminal(info *terminal.Info) Result {
	if info == nil || !info.InteractiveEnabled() {
		return Result{
			Status:  StatusWarn,
			Message: "Not interactive",
			Detail:  "ask and setup need a terminal on stdin and stderr; use --all or flags instead",
		}
	}

	return Result{Status: StatusPass, Message: fmt.Sprintf("Interactive (%dx%d)", info.Width, info.Height)}
}

func inspectBundle(source string) (linking.Manifest, Result) {
	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return linking.Manifest{}, Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s not found", source),
			Detail:  "Clone the bundle there or pass --source",
		}
	}

	m, path, err := linking.LoadManifest(source)
	if err != nil {
		return linking.Manifest{}, Result{Status: StatusFail, Message: source, Detail: err.Error()}
	}

	if path == "" {
		path = "built-in manifest"
	}

	return m, Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s (%d entries, %s)", source, len(m.Entries), path),
	}
}

func checkLink(op linking.Op) Result {
	state := linking.Inspect(op)

	switch state {
	case linking.StateLinked:
		return Result{Status: StatusPass, Message: op.TargetPath}
	case linking.StateSourceMissing:
		return Result{Status: StatusWarn, Message: state.String(), Detail: op.SourcePath}
	case linking.StateMissing:
		return Result{Status: StatusWarn, Message: fmt.Sprintf("%s (%s)", op.TargetPath, state), Detail: "Run 'agent-stuff setup' to install"}
	default:
		return Result{Status: StatusWarn, Message: fmt.Sprintf("%s (%s)", op.TargetPath, state), Detail: "Run 'agent-stuff setup' to replace it; the old file is backed up"}
	}
}

// Reporter receives rendered rows. The output writer satisfies it.
type Reporter interface {
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Failure(format string, args ...any)
	Muted(format string, args ...any)
}

// RenderResults writes one aligned status row per result.
func RenderResults(results []Result, w Reporter) {
	maxNameLen := 0
	for _, r := range results {
		if len(r.Name) > maxNameLen {
			maxNameLen = len(r.Name)
		}
	}

	for _, r := range results {
		row := fmt.Sprintf("%-*s%s", maxNameLen+4, r.Name, r.Message)

		switch r.Status {
		case StatusPass:
			w.Success("%s", row)
		case StatusWarn:
			w.Warning("%s", row)
		default:
			w.Failure("%s", row)
		}

		if r.Detail != "" {
			w.Muted("    %s", r.Detail)
		}
	}
}
