// Package terminal provides terminal detection and capabilities.
//
// This package handles:
//   - TTY detection for stdin/stdout/stderr
//   - NO_COLOR environment variable support
//   - Terminal dimensions
//   - Raw mode for the key-by-key picker
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Info holds terminal capability information.
type Info struct {
	IsTTY     bool
	StdinTTY  bool
	StderrTTY bool
	NoColor   bool
	Width     int
	Height    int
	ForceFlag bool // Set when --no-color flag is used
}

// Detect returns terminal information for the current environment.
func Detect() *Info {
	stdoutFD := int(os.Stdout.Fd())
	isTTY := term.IsTerminal(stdoutFD)
	stderrTTY := IsTerminal(os.Stderr)

	width, height := 80, 24 // sensible defaults

	// Interactive UIs draw on stderr, so prefer its size.
	switch {
	case stderrTTY:
		if w, h, err := term.GetSize(int(os.Stderr.Fd())); err == nil {
			width, height = w, h
		}
	case isTTY:
		if w, h, err := term.GetSize(stdoutFD); err == nil {
			width, height = w, h
		}
	}

	// Check NO_COLOR environment variable (https://no-color.org/)
	_, noColor := os.LookupEnv("NO_COLOR")

	// Treat TERM=dumb as no-color (terminals that don't support escape sequences)
	if os.Getenv("TERM") == "dumb" {
		noColor = true
	}

	return &Info{
		IsTTY:     isTTY,
		StdinTTY:  IsTerminal(os.Stdin),
		StderrTTY: stderrTTY,
		NoColor:   noColor,
		Width:     width,
		Height:    height,
	}
}

// ColorEnabled returns true if colored output should be used.
func (t *Info) ColorEnabled() bool {
	if t.ForceFlag {
		return false
	}

	return t.IsTTY && !t.NoColor
}

// InteractiveEnabled returns true if key-driven UIs can run: keys come from
// stdin and the UI is drawn on stderr.
func (t *Info) InteractiveEnabled() bool {
	return t.StdinTTY && t.StderrTTY
}

// SpinnersEnabled returns true if spinners should be used.
func (t *Info) SpinnersEnabled() bool {
	return t.IsTTY && !t.NoColor
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of f, or fallback when unknown.
func Width(f *os.File, fallback int) int {
	if !IsTerminal(f) {
		return fallback
	}

	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}

	return w
}

// MakeRaw switches f to raw mode and returns a function that restores the
// previous state. The restore function is safe to call more than once.
func MakeRaw(f *os.File) (func(), error) {
	fd := int(f.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	restored := false

	return func() {
		if restored {
			return
		}

		restored = true
		_ = term.Restore(fd, state)
	}, nil
}
