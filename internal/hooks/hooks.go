// Package hooks implements the small agent lifecycle hooks: a warning when
// the agent starts in a dirty repository, and a terminal notification when
// it finishes a turn.
package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/psg2/agent-stuff/internal/gitstatus"
	"github.com/psg2/agent-stuff/internal/tui/ansi"
)

// Input is the optional JSON payload a host pipes into a hook.
type Input struct {
	Cwd     string `json:"cwd"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ReadInput decodes a hook payload. Empty input yields a zero Input.
func ReadInput(r io.Reader) (Input, error) {
	var in Input

	if r == nil {
		return in, nil
	}

	err := json.NewDecoder(r).Decode(&in)
	if err != nil && !errors.Is(err, io.EOF) {
		return Input{}, fmt.Errorf("decode hook input: %w", err)
	}

	return in, nil
}

// Warning describes uncommitted work found at startup.
type Warning struct {
	Dir     string           `json:"dir"`
	Status  gitstatus.Status `json:"status"`
	Message string           `json:"message"`
}

// DirtyRepo checks dir for uncommitted changes. It reports false outside a
// repository, on git failure, or for a clean tree.
func DirtyRepo(ctx context.Context, dir string, timeout time.Duration) (Warning, bool) {
	s, err := gitstatus.Query(ctx, dir, timeout)
	if err != nil || !s.Dirty() {
		return Warning{}, false
	}

	return Warning{Dir: dir, Status: s, Message: dirtyMessage(s)}, true
}

func dirtyMessage(s gitstatus.Status) string {
	var parts []string

	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}

	add(s.Conflicted, "conflicted")
	add(s.Staged, "staged")
	add(s.Modified, "modified")
	add(s.Untracked, "untracked")

	branch := s.Branch
	if branch == "" {
		branch = "this repository"
	}

	return fmt.Sprintf("Uncommitted changes on %s: %s", branch, strings.Join(parts, ", "))
}

// Notification is an end-of-turn alert.
type Notification struct {
	Title   string
	Body    string
	Bell    bool
	Desktop bool
}

// Notify writes the terminal sequences for n to w. Nothing is written when
// both Bell and Desktop are off.
func Notify(w io.Writer, n Notification) error {
	var b strings.Builder

	if n.Bell {
		b.WriteString(ansi.Bell)
	}

	if n.Desktop {
		title := n.Title
		if title == "" {
			title = "agent-stuff"
		}

		b.WriteString(ansi.Notify(title, n.Body))
	}

	if b.Len() == 0 {
		return nil
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}

	return nil
}
