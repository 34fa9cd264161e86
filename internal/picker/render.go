package picker

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/psg2/agent-stuff/internal/tui/render"
)

// Styles controls how rendered lines are colored.
type Styles struct {
	Title       lipgloss.Style
	Cursor      lipgloss.Style
	Checked     lipgloss.Style
	Unchecked   lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the colored theme.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		Checked:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Unchecked:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// PlainStyles returns styles that emit no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()

	return Styles{plain, plain, plain, plain, plain, plain}
}

// Render draws the checklist as lines no wider than width cells; zero
// disables truncation.
func Render(m *Machine, title string, width int, st Styles) []string {
	lines := []string{st.Title.Render(title), ""}

	for i, it := range m.Items() {
		pointer := "  "
		if i == m.Cursor() {
			pointer = st.Cursor.Render("> ")
		}

		box := st.Unchecked.Render("[ ]")
		if it.Selected {
			box = st.Checked.Render("[x]")
		}

		name := it.Name
		if i == m.Cursor() {
			name = st.Cursor.Render(name)
		}

		line := pointer + box + " " + name
		if it.Description != "" {
			line += "  " + st.Description.Render(it.Description)
		}

		lines = append(lines, line)
	}

	lines = append(lines,
		"",
		fmt.Sprintf("%d of %d selected", m.SelectedCount(), len(m.Items())),
		st.Help.Render("↑↓ move • space toggle • a all • n none • enter confirm • q cancel"),
	)

	return render.Lines(lines, width)
}
