// Package prompt provides line-based confirmations for agent-stuff.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/psg2/agent-stuff/internal/output"
)

var errCanceled = errors.New("prompt canceled")

// IsCanceled reports whether err came from the user closing the prompt.
func IsCanceled(err error) bool {
	return errors.Is(err, errCanceled)
}

// Prompter handles interactive prompts.
type Prompter struct {
	out    *output.Writer
	reader *bufio.Reader
}

// New creates a Prompter reading from stdin.
func New(out *output.Writer) *Prompter {
	return NewWithReader(out, os.Stdin)
}

// NewWithReader creates a Prompter reading answers from in.
func NewWithReader(out *output.Writer, in io.Reader) *Prompter {
	return &Prompter{
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// CanPrompt returns true if interactive prompts are available.
func (p *Prompter) CanPrompt() bool {
	return p.out.Terminal().InteractiveEnabled() && !p.out.NoInput
}

// Confirm prompts for a yes/no confirmation. The question goes to stderr so
// stdout stays clean. End of input without an answer cancels.
func (p *Prompter) Confirm(message string, defaultValue bool) (bool, error) {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	p.out.Error("%s [%s]: ", message, defaultStr)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			p.out.Error("\n")
			return false, errCanceled
		}

		if !errors.Is(err, io.EOF) {
			return defaultValue, fmt.Errorf("failed to read input: %w", err)
		}
	}

	switch strings.TrimSpace(strings.ToLower(input)) {
	case "":
		return defaultValue, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
