// Package keys defines the logical key events consumed by the interactive
// selection machines.
//
// The machines never inspect raw terminal bytes. Drivers translate whatever
// their input source produces (raw byte chunks from a tty, or bubbletea key
// messages) into Key values:
//   - Decoder handles raw byte chunks, including ESC-prefixed sequences
//   - FromTea / ToTea bridge to github.com/charmbracelet/bubbletea
package keys

import "fmt"

// Type enumerates the logical key kinds.
type Type int

const (
	// Unknown is never produced by a decoder; it is the zero value.
	Unknown Type = iota
	Up
	Down
	Left
	Right
	Tab
	ShiftTab
	Enter
	Escape
	Backspace
	// Interrupt is ctrl-c.
	Interrupt
	// Rune is a printable character, carried in Key.Rune.
	Rune
)

// Key is a single logical key press.
type Key struct {
	Type Type
	Rune rune
}

// Char returns a Rune key for r.
func Char(r rune) Key {
	return Key{Type: Rune, Rune: r}
}

// Of returns a non-rune key of the given type.
func Of(t Type) Key {
	return Key{Type: t}
}

// Is reports whether k is the rune r.
func (k Key) Is(r rune) bool {
	return k.Type == Rune && k.Rune == r
}

// String returns a human-readable key name, matching bubbletea's spelling
// where one exists.
func (k Key) String() string {
	switch k.Type {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Tab:
		return "tab"
	case ShiftTab:
		return "shift+tab"
	case Enter:
		return "enter"
	case Escape:
		return "esc"
	case Backspace:
		return "backspace"
	case Interrupt:
		return "ctrl+c"
	case Rune:
		if k.Rune == ' ' {
			return "space"
		}

		return string(k.Rune)
	default:
		return fmt.Sprintf("key(%d)", int(k.Type))
	}
}
