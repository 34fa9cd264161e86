// Package render provides display-width aware helpers for laying out
// terminal lines. Widths are measured in terminal cells, so wide (CJK) and
// combining characters are handled, and ANSI styling is not counted.
package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// Width returns the visible width of s in cells, ignoring ANSI sequences.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Truncate shortens a possibly styled string to at most width cells,
// ending it with an ellipsis when something was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if Width(s) <= width {
		return s
	}

	return ansi.Truncate(s, width, Ellipsis)
}

// TruncatePlain is Truncate for strings known to carry no ANSI sequences.
func TruncatePlain(s string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(s, width, Ellipsis)
}

// PadRight appends spaces until s is width cells wide.
func PadRight(s string, width int) string {
	padding := width - Width(s)
	if padding <= 0 {
		return s
	}

	return s + strings.Repeat(" ", padding)
}

// Fit truncates or pads s to exactly width cells.
func Fit(s string, width int) string {
	return PadRight(Truncate(s, width), width)
}

// Lines truncates every line to width.
func Lines(lines []string, width int) []string {
	if width <= 0 {
		return lines
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Truncate(line, width)
	}

	return out
}
