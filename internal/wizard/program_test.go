package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newProgramModel(t *testing.T, qs ...Question) *programModel {
	t.Helper()

	editor := newTextInputEditor()

	m, err := New(qs, editor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &programModel{machine: m, editor: editor, styles: PlainStyles()}
}

func send(p *programModel, msgs ...tea.Msg) {
	for _, msg := range msgs {
		p.Update(msg)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestProgram_EditorBindingsReachTextInput(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want string
	}{
		{
			name: "ctrl+u clears before cursor",
			msgs: []tea.Msg{runes("hello"), tea.KeyMsg{Type: tea.KeyCtrlU}, runes("X")},
			want: "X",
		},
		{
			name: "home then insert",
			msgs: []tea.Msg{runes("ello"), tea.KeyMsg{Type: tea.KeyHome}, runes("h")},
			want: "hello",
		},
		{
			name: "ctrl+a then delete",
			msgs: []tea.Msg{runes("xhello"), tea.KeyMsg{Type: tea.KeyCtrlA}, tea.KeyMsg{Type: tea.KeyDelete}},
			want: "hello",
		},
		{
			name: "ctrl+w deletes word",
			msgs: []tea.Msg{runes("hello world"), tea.KeyMsg{Type: tea.KeyCtrlW}},
			want: "hello ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProgramModel(t, twoOptions("q"))

			send(p, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

			if got := p.machine.Mode(); got != ModeTextEntry {
				t.Fatalf("Mode() = %v, want ModeTextEntry", got)
			}

			send(p, tt.msgs...)

			if got := p.editor.Value(); got != tt.want {
				t.Errorf("editor value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgram_MachineKeysStillLeaveEditor(t *testing.T) {
	p := newProgramModel(t, twoOptions("q"))

	send(p, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	send(p, runes("draft"), tea.KeyMsg{Type: tea.KeyEsc})

	if got := p.machine.Mode(); got != ModeBrowsing {
		t.Fatalf("Mode() after esc = %v, want ModeBrowsing", got)
	}

	send(p, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	send(p, runes("typed"))

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Update(enter) returned no command, want tea.Quit")
	}

	res := p.machine.Result()
	if res.Cancelled {
		t.Fatal("Result().Cancelled = true, want submitted")
	}

	if len(res.Answers) != 1 || res.Answers[0].Value != "typed" || !res.Answers[0].WasCustomText {
		t.Errorf("Answers = %+v, want one custom answer %q", res.Answers, "typed")
	}
}
