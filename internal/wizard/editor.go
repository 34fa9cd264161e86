package wizard

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/psg2/agent-stuff/internal/keys"
)

// textInputEditor adapts a bubbles textinput to the Editor interface. Commands
// produced by the widget (cursor blink) are held until the program collects
// them.
type textInputEditor struct {
	input   textinput.Model
	pending []tea.Cmd
}

func newTextInputEditor() *textInputEditor {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "Type your answer"
	ti.CharLimit = 0

	return &textInputEditor{input: ti}
}

func (e *textInputEditor) Reset(initial string) {
	e.input.SetValue(initial)
	e.input.CursorEnd()
	e.pending = append(e.pending, e.input.Focus())
}

func (e *textInputEditor) HandleKey(k keys.Key) {
	e.update(keys.ToTea(k))
}

func (e *textInputEditor) update(msg tea.Msg) {
	var cmd tea.Cmd

	e.input, cmd = e.input.Update(msg)
	if cmd != nil {
		e.pending = append(e.pending, cmd)
	}
}

func (e *textInputEditor) Value() string { return e.input.Value() }

func (e *textInputEditor) View() string { return e.input.View() }

// takeCmd returns and clears the pending widget commands.
func (e *textInputEditor) takeCmd() tea.Cmd {
	if len(e.pending) == 0 {
		return nil
	}

	cmd := tea.Batch(e.pending...)
	e.pending = nil

	return cmd
}
