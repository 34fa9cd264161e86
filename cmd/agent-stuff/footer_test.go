package main

import (
	"strings"
	"testing"
)

func TestReadSnapshot(t *testing.T) {
	snap, err := readSnapshot(strings.NewReader(`{"model":"sonnet","inputTokens":12000,"outputTokens":3400,"costUsd":0.12,"contextPercent":42}`))
	if err != nil {
		t.Fatalf("readSnapshot() error = %v", err)
	}

	if snap.Model != "sonnet" || snap.InputTokens != 12000 || snap.OutputTokens != 3400 || snap.ContextPercent != 42 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestReadSnapshot_EmptyAndNil(t *testing.T) {
	for name, in := range map[string]*strings.Reader{"empty": strings.NewReader(""), "nil": nil} {
		t.Run(name, func(t *testing.T) {
			var err error
			if in == nil {
				_, err = readSnapshot(nil)
			} else {
				_, err = readSnapshot(in)
			}

			if err != nil {
				t.Fatalf("readSnapshot() error = %v", err)
			}
		})
	}
}

func TestReadSnapshot_Malformed(t *testing.T) {
	if _, err := readSnapshot(strings.NewReader(`{"model":`)); err == nil {
		t.Fatal("readSnapshot() should reject truncated JSON")
	}
}
