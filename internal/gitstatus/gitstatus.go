// Package gitstatus reads the working-tree state of a git repository for the
// footer and the dirty-repo hook.
package gitstatus

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every git invocation.
const DefaultTimeout = 2 * time.Second

// Status is the parsed result of `git status --porcelain=v1 --branch`.
type Status struct {
	Branch     string `json:"branch"`
	Upstream   string `json:"upstream,omitempty"`
	Ahead      int    `json:"ahead"`
	Behind     int    `json:"behind"`
	Staged     int    `json:"staged"`
	Modified   int    `json:"modified"`
	Untracked  int    `json:"untracked"`
	Conflicted int    `json:"conflicted"`
}

// Dirty reports whether the tree has any uncommitted change.
func (s Status) Dirty() bool {
	return s.Staged+s.Modified+s.Untracked+s.Conflicted > 0
}

// Format folds the status into a compact line such as "main ↑1 +2 ~1 ?3".
// Zero counts are omitted.
func (s Status) Format() string {
	parts := make([]string, 0, 7)
	if s.Branch != "" {
		parts = append(parts, s.Branch)
	}

	counts := []struct {
		sym string
		n   int
	}{
		{"↑", s.Ahead},
		{"↓", s.Behind},
		{"!", s.Conflicted},
		{"+", s.Staged},
		{"~", s.Modified},
		{"?", s.Untracked},
	}

	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, c.sym+strconv.Itoa(c.n))
		}
	}

	return strings.Join(parts, " ")
}

var conflictPairs = map[string]bool{
	"UU": true, "AA": true, "DD": true,
	"AU": true, "UA": true, "DU": true, "UD": true,
}

// Parse reads porcelain v1 output with the --branch header.
func Parse(porcelain string) Status {
	var s Status

	for _, line := range strings.Split(porcelain, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 2 {
			continue
		}

		if strings.HasPrefix(line, "## ") {
			parseBranch(line[3:], &s)
			continue
		}

		xy := line[:2]

		switch {
		case xy == "??":
			s.Untracked++
		case xy == "!!":
			// ignored files only show with --ignored
		case conflictPairs[xy]:
			s.Conflicted++
		default:
			if xy[0] != ' ' && xy[0] != '?' {
				s.Staged++
			}

			if xy[1] != ' ' {
				s.Modified++
			}
		}
	}

	return s
}

// parseBranch handles the forms
//
//	main
//	main...origin/main [ahead 1, behind 2]
//	No commits yet on main
//	HEAD (no branch)
func parseBranch(header string, s *Status) {
	if rest, ok := strings.CutPrefix(header, "No commits yet on "); ok {
		s.Branch = rest
		return
	}

	if strings.HasPrefix(header, "HEAD (no branch)") {
		s.Branch = "HEAD"
		return
	}

	name, tracking, _ := strings.Cut(header, " [")

	if local, upstream, ok := strings.Cut(name, "..."); ok {
		s.Branch = local
		s.Upstream = upstream
	} else {
		s.Branch = name
	}

	tracking = strings.TrimSuffix(tracking, "]")
	for _, part := range strings.Split(tracking, ", ") {
		if n, ok := strings.CutPrefix(part, "ahead "); ok {
			s.Ahead, _ = strconv.Atoi(n)
		}

		if n, ok := strings.CutPrefix(part, "behind "); ok {
			s.Behind, _ = strconv.Atoi(n)
		}
	}
}

// Query runs git status in dir. A zero timeout selects DefaultTimeout.
func Query(ctx context.Context, dir string, timeout time.Duration) (Status, error) {
	out, err := git(ctx, dir, timeout, "status", "--porcelain=v1", "--branch")
	if err != nil {
		return Status{}, err
	}

	return Parse(out), nil
}

// Summary returns Query(...).Format(), or "" when dir is not a repository or
// git fails for any reason.
func Summary(ctx context.Context, dir string, timeout time.Duration) string {
	s, err := Query(ctx, dir, timeout)
	if err != nil {
		return ""
	}

	return s.Format()
}

// Version returns the installed git version, e.g. "2.43.0".
func Version(ctx context.Context) (string, error) {
	out, err := git(ctx, "", 0, "version")
	if err != nil {
		return "", err
	}

	// "git version 2.43.0" or "git version 2.39.3 (Apple Git-145)"
	fields := strings.Fields(out)
	if len(fields) < 3 {
		return "", fmt.Errorf("unexpected git version output %q", strings.TrimSpace(out))
	}

	return fields[2], nil
}

// git runs a git command with a timeout and returns its stdout.
func git(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w (stderr: %s)", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
