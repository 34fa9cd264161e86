// Package testutil compares rendered command and widget output against
// files under a package's testdata directory.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Rewrite goldens from current output: go test ./... -update
var update = flag.Bool("update", false, "rewrite testdata/*.golden from current output")

// Path returns the location of a golden file for the package under test.
func Path(name string) string {
	return filepath.Join("testdata", name)
}

// AssertGolden reports a test error when got differs from testdata/name.
// Terminal frames use CRLF line endings; they are compared as LF so goldens
// stay readable. With -update the file is rewritten and nothing is compared.
func AssertGolden(t testing.TB, got, name string) {
	t.Helper()

	got = strings.ReplaceAll(got, "\r\n", "\n")
	path := Path(name)

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create %s: %v", filepath.Dir(path), err)
			return
		}

		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("write golden %s: %v", path, err)
			return
		}

		t.Logf("rewrote %s", path)

		return
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("missing golden %s; rerun with -update to create it", path)
		return
	}

	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
		return
	}

	if got != string(want) {
		t.Errorf("%s differs (rerun with -update if the change is intended)\n--- got\n%s\n--- want\n%s", path, got, want)
	}
}
