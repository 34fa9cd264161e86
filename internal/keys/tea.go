package keys

import tea "github.com/charmbracelet/bubbletea"

// FromTea converts a bubbletea key message. The boolean is false for keys
// the selection machines have no use for.
func FromTea(msg tea.KeyMsg) (Key, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return Of(Up), true
	case tea.KeyDown:
		return Of(Down), true
	case tea.KeyLeft:
		return Of(Left), true
	case tea.KeyRight:
		return Of(Right), true
	case tea.KeyTab:
		return Of(Tab), true
	case tea.KeyShiftTab:
		return Of(ShiftTab), true
	case tea.KeyEnter:
		return Of(Enter), true
	case tea.KeyEsc:
		return Of(Escape), true
	case tea.KeyBackspace:
		return Of(Backspace), true
	case tea.KeyCtrlC:
		return Of(Interrupt), true
	case tea.KeySpace:
		return Char(' '), true
	case tea.KeyRunes:
		// Pasted text arrives as one message; callers that care about
		// every rune use FromTeaAll.
		if len(msg.Runes) == 1 && !msg.Alt {
			return Char(msg.Runes[0]), true
		}
	}

	return Key{}, false
}

// FromTeaAll is like FromTea but expands multi-rune messages (pastes) into
// one key per rune.
func FromTeaAll(msg tea.KeyMsg) []Key {
	if msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 1 {
		out := make([]Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, Char(r))
		}

		return out
	}

	if k, ok := FromTea(msg); ok {
		return []Key{k}
	}

	return nil
}

// ToTea converts a key back into a bubbletea key message, for feeding
// bubbles components.
func ToTea(k Key) tea.KeyMsg {
	switch k.Type {
	case Up:
		return tea.KeyMsg{Type: tea.KeyUp}
	case Down:
		return tea.KeyMsg{Type: tea.KeyDown}
	case Left:
		return tea.KeyMsg{Type: tea.KeyLeft}
	case Right:
		return tea.KeyMsg{Type: tea.KeyRight}
	case Tab:
		return tea.KeyMsg{Type: tea.KeyTab}
	case ShiftTab:
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case Enter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case Escape:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case Backspace:
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case Interrupt:
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case Rune:
		if k.Rune == ' ' {
			return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}

		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k.Rune}}
	default:
		return tea.KeyMsg{}
	}
}
