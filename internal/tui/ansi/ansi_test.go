package ansi

import "testing"

func TestMoveUp(t *testing.T) {
	if got := MoveUp(3); got != "\x1b[3A" {
		t.Errorf("MoveUp(3) = %q", got)
	}

	if got := MoveUp(0); got != "" {
		t.Errorf("MoveUp(0) = %q, want empty", got)
	}
}

func TestNotify_StripsSeparatorsAndControls(t *testing.T) {
	got := Notify("agent;done", "line\nbreak\x1b")

	want := "\x1b]777;notify;agentdone;linebreak\x1b\\"
	if got != want {
		t.Errorf("Notify() = %q, want %q", got, want)
	}
}
