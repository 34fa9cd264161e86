// Package footer renders the one-line status footer shown under an agent's
// input box: where you are on the left, what the session costs on the right.
package footer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/psg2/agent-stuff/internal/gitstatus"
	"github.com/psg2/agent-stuff/internal/tui/render"
)

// Snapshot is the data shown in the footer. Hosts send it as JSON.
type Snapshot struct {
	Cwd            string           `json:"cwd"`
	Model          string           `json:"model"`
	Git            gitstatus.Status `json:"git"`
	InputTokens    int64            `json:"inputTokens"`
	OutputTokens   int64            `json:"outputTokens"`
	CostUSD        float64          `json:"costUsd"`
	ContextPercent float64          `json:"contextPercent"`
}

// Styles colors the footer segments.
type Styles struct {
	Path    lipgloss.Style
	Branch  lipgloss.Style
	Model   lipgloss.Style
	Usage   lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the colored theme.
func DefaultStyles() Styles {
	return Styles{
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Branch:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Model:   lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Usage:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// contextWarnPercent is where the context figure switches to the warning style.
const contextWarnPercent = 80

// Render lays out s in exactly width display cells. home, when non-empty,
// is abbreviated to "~". A width of zero skips padding and truncation.
func Render(s Snapshot, width int, home string, st Styles) string {
	left := leftSegment(s, home, st)
	right := rightSegment(s, st)

	if width <= 0 {
		if right == "" {
			return left
		}

		return left + "  " + right
	}

	rightWidth := render.Width(right)
	if rightWidth >= width {
		return render.Fit(right, width)
	}

	// One cell keeps the segments apart.
	room := width - rightWidth - 1
	left = render.Truncate(left, room)

	gap := width - render.Width(left) - rightWidth

	return left + strings.Repeat(" ", gap) + right
}

func leftSegment(s Snapshot, home string, st Styles) string {
	var parts []string

	if s.Cwd != "" {
		parts = append(parts, st.Path.Render(ShortenPath(s.Cwd, home)))
	}

	if g := s.Git.Format(); g != "" {
		parts = append(parts, st.Branch.Render(g))
	}

	return strings.Join(parts, " ")
}

func rightSegment(s Snapshot, st Styles) string {
	var parts []string

	if s.Model != "" {
		parts = append(parts, st.Model.Render(s.Model))
	}

	if s.InputTokens > 0 || s.OutputTokens > 0 {
		parts = append(parts, st.Usage.Render("↑"+FormatTokens(s.InputTokens)+" ↓"+FormatTokens(s.OutputTokens)))
	}

	if s.CostUSD > 0 {
		parts = append(parts, st.Usage.Render(fmt.Sprintf("$%.2f", s.CostUSD)))
	}

	if s.ContextPercent > 0 {
		style := st.Usage
		if s.ContextPercent >= contextWarnPercent {
			style = st.Warning
		}

		parts = append(parts, style.Render(fmt.Sprintf("%.0f%%", s.ContextPercent)))
	}

	return strings.Join(parts, " ")
}

// ShortenPath replaces a leading home directory with "~".
func ShortenPath(path, home string) string {
	if home == "" {
		return path
	}

	home = filepath.Clean(home)
	path = filepath.Clean(path)

	if path == home {
		return "~"
	}

	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}

	return path
}

// FormatTokens abbreviates a token count: 950, 3.4k, 12k, 1.2M.
func FormatTokens(n int64) string {
	switch {
	case n < 1_000:
		return fmt.Sprintf("%d", n)
	case n < 10_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "k"
	case n < 1_000_000:
		return fmt.Sprintf("%dk", n/1_000)
	default:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
