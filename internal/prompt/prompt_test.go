package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/terminal"
)

func TestIsCanceled(t *testing.T) {
	if !IsCanceled(errCanceled) {
		t.Fatal("IsCanceled(errCanceled) = false, want true")
	}

	if !IsCanceled(errors.Join(errors.New("other"), errCanceled)) {
		t.Fatal("IsCanceled(wrapped errCanceled) = false, want true")
	}

	if IsCanceled(errors.New("not canceled")) {
		t.Fatal("IsCanceled(unrelated error) = true, want false")
	}
}

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	out := output.NewWriter(&stdout, &stderr, &terminal.Info{NoColor: true})

	return NewWithReader(out, strings.NewReader(input)), &stderr
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal bool
		want       bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes uppercase", input: "YES\n", want: true},
		{name: "no", input: "n\n", defaultVal: true, want: false},
		{name: "empty uses default true", input: "\n", defaultVal: true, want: true},
		{name: "empty uses default false", input: "\n", want: false},
		{name: "answer without newline", input: "y", want: true},
		{name: "garbage is no", input: "maybe\n", defaultVal: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)

			got, err := p.Confirm("Proceed?", tt.defaultVal)
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfirm_EOFCancels(t *testing.T) {
	p, _ := newTestPrompter("")

	_, err := p.Confirm("Proceed?", true)
	if !IsCanceled(err) {
		t.Fatalf("Confirm() error = %v, want canceled", err)
	}
}

func TestConfirm_PromptGoesToStderr(t *testing.T) {
	p, stderr := newTestPrompter("y\n")

	if _, err := p.Confirm("Link 3 entries?", false); err != nil {
		t.Fatal(err)
	}

	if got := stderr.String(); got != "Link 3 entries? [y/N]: " {
		t.Errorf("prompt = %q", got)
	}
}

func TestCanPrompt(t *testing.T) {
	var stdout, stderr bytes.Buffer

	tty := &terminal.Info{IsTTY: true, StdinTTY: true, StderrTTY: true}
	out := output.NewWriter(&stdout, &stderr, tty)

	p := NewWithReader(out, strings.NewReader(""))
	if !p.CanPrompt() {
		t.Fatal("CanPrompt() = false on a tty")
	}

	out.NoInput = true
	if p.CanPrompt() {
		t.Fatal("CanPrompt() = true with --no-input")
	}
}
