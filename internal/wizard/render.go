package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/psg2/agent-stuff/internal/tui/render"
)

// Styles controls how rendered lines are colored.
type Styles struct {
	ActiveTab   lipgloss.Style
	AnsweredTab lipgloss.Style
	PendingTab  lipgloss.Style
	Prompt      lipgloss.Style
	Selected    lipgloss.Style
	Normal      lipgloss.Style
	Description lipgloss.Style
	Escape      lipgloss.Style
	Disabled    lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the colored theme.
func DefaultStyles() Styles {
	return Styles{
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81")),
		AnsweredTab: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		PendingTab:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Prompt:      lipgloss.NewStyle().Bold(true),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		Normal:      lipgloss.NewStyle(),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Escape:      lipgloss.NewStyle().Italic(true),
		Disabled:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// PlainStyles returns styles that emit no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()

	return Styles{
		ActiveTab:   plain,
		AnsweredTab: plain,
		PendingTab:  plain,
		Prompt:      plain,
		Selected:    plain,
		Normal:      plain,
		Description: plain,
		Escape:      plain,
		Disabled:    plain,
		Help:        plain,
	}
}

// Render draws the machine as lines no wider than width cells. A width of
// zero disables truncation.
func Render(m *Machine, width int, st Styles) []string {
	var lines []string

	if m.Multi() {
		lines = append(lines, renderTabs(m, st), "")
	}

	switch m.Mode() {
	case ModeReview:
		lines = append(lines, renderReview(m, st)...)
	case ModeBrowsing, ModeTextEntry:
		lines = append(lines, renderQuestion(m, st)...)
	case ModeSubmitted, ModeCancelled:
		return nil
	}

	lines = append(lines, "", st.Help.Render(helpLine(m)))

	return render.Lines(lines, width)
}

func renderTabs(m *Machine, st Styles) string {
	parts := make([]string, 0, len(m.Questions())+1)

	for i, q := range m.Questions() {
		mark := "□"
		style := st.PendingTab

		if _, ok := m.Answer(q.ID); ok {
			mark = "✓"
			style = st.AnsweredTab
		}

		parts = append(parts, tab(fmt.Sprintf("%s %s", mark, q.Label), i == m.Step(), style, st))
	}

	submitStyle := st.PendingTab
	if m.Complete() {
		submitStyle = st.AnsweredTab
	}

	parts = append(parts, tab("Submit", m.Step() == len(m.Questions()), submitStyle, st))

	return "← " + strings.Join(parts, " ") + " →"
}

func tab(text string, active bool, style lipgloss.Style, st Styles) string {
	if active {
		return st.ActiveTab.Render("[" + text + "]")
	}

	return style.Render(" " + text + " ")
}

func renderQuestion(m *Machine, st Styles) []string {
	q := m.Questions()[m.Step()]
	lines := []string{st.Prompt.Render(q.Prompt), ""}

	answer, answered := m.Answer(q.ID)

	for i, c := range m.Choices() {
		pointer := "  "
		style := st.Normal

		if c.Kind != ChoiceOption {
			style = st.Escape
		}

		if i == m.Cursor() {
			pointer = "> "
			style = st.Selected
		}

		label := fmt.Sprintf("%d. %s", i+1, c.Label())
		if answered && isAnswerChoice(answer, c) {
			label += " ✓"
		}

		lines = append(lines, pointer+style.Render(label))

		if desc := c.Description(); desc != "" && c.Kind == ChoiceOption {
			lines = append(lines, "     "+st.Description.Render(desc))
		}
	}

	if m.Mode() == ModeTextEntry {
		heading := "Your answer:"
		if m.EntryKind() == ChoiceChat {
			heading = "Your message:"
		}

		lines = append(lines, "", st.Prompt.Render(heading), "  "+m.Editor().View())
	}

	return lines
}

func isAnswerChoice(a Answer, c Choice) bool {
	switch c.Kind {
	case ChoiceCustomText:
		return a.WasCustomText
	case ChoiceChat:
		return a.WasChat
	default:
		return !a.WasCustomText && !a.WasChat && a.SelectedIndex == c.Index
	}
}

func renderReview(m *Machine, st Styles) []string {
	lines := []string{st.Prompt.Render("Review your answers"), ""}

	for _, q := range m.Questions() {
		a, ok := m.Answer(q.ID)
		if !ok {
			lines = append(lines, fmt.Sprintf(" %s: %s", q.Label, st.Disabled.Render("(unanswered)")))
			continue
		}

		value := a.Label
		switch {
		case a.WasCustomText:
			value += " " + st.Description.Render("(custom)")
		case a.WasChat:
			value += " " + st.Description.Render("(chat)")
		}

		lines = append(lines, fmt.Sprintf(" %s: %s", q.Label, value))
	}

	lines = append(lines, "")

	rows := []string{"Submit answers", "Cancel"}
	for i, row := range rows {
		pointer := "  "
		style := st.Normal

		if i == reviewSubmit && !m.Complete() {
			style = st.Disabled
			row += " (answer all questions first)"
		}

		if i == m.Cursor() {
			pointer = "> "
			if i != reviewSubmit || m.Complete() {
				style = st.Selected
			}
		}

		lines = append(lines, pointer+style.Render(row))
	}

	return lines
}

func helpLine(m *Machine) string {
	switch m.Mode() {
	case ModeTextEntry:
		return "enter submit • esc back"
	case ModeReview:
		return "↑↓ navigate • enter confirm • tab switch • esc cancel"
	default:
		if m.Multi() {
			return "↑↓ navigate • enter select • tab switch • esc cancel"
		}

		return "↑↓ navigate • enter select • esc cancel"
	}
}
