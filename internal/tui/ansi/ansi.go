// Package ansi holds the raw control sequences used by the raw-mode
// drivers that paint without a TUI framework.
package ansi

import "fmt"

// ANSI escape sequence constants for terminal control.
const (
	ClearScreen   = "\x1b[2J"
	ClearToEnd    = "\x1b[J"
	ClearLine     = "\x1b[2K"
	Home          = "\x1b[H"
	MoveUpFmt     = "\x1b[%dA"
	ShowCursor    = "\x1b[?25h"
	HideCursor    = "\x1b[?25l"
	Reset         = "\x1b[0m"
	Bell          = "\a"
	OSCTerminator = "\x1b\\"
)

// MoveUp returns a sequence moving the cursor n rows up; empty for n <= 0.
func MoveUp(n int) string {
	if n <= 0 {
		return ""
	}

	return fmt.Sprintf(MoveUpFmt, n)
}

// Notify returns an OSC 777 desktop notification sequence, understood by
// Ghostty, WezTerm, foot, rxvt and others.
func Notify(title, body string) string {
	return "\x1b]777;notify;" + sanitizeOSC(title) + ";" + sanitizeOSC(body) + OSCTerminator
}

// sanitizeOSC strips bytes that would terminate or corrupt an OSC payload.
func sanitizeOSC(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f || r == ';' {
			continue
		}

		out = append(out, r)
	}

	return string(out)
}
