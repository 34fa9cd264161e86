package gitstatus

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Status
	}{
		{
			name:  "clean with upstream",
			input: "## main...origin/main\n",
			want:  Status{Branch: "main", Upstream: "origin/main"},
		},
		{
			name:  "ahead and behind",
			input: "## feat/x...origin/feat/x [ahead 2, behind 1]\n",
			want:  Status{Branch: "feat/x", Upstream: "origin/feat/x", Ahead: 2, Behind: 1},
		},
		{
			name:  "gone upstream",
			input: "## main...origin/main [gone]\n",
			want:  Status{Branch: "main", Upstream: "origin/main"},
		},
		{
			name:  "no commits",
			input: "## No commits yet on trunk\n?? a.txt\n",
			want:  Status{Branch: "trunk", Untracked: 1},
		},
		{
			name:  "detached",
			input: "## HEAD (no branch)\n",
			want:  Status{Branch: "HEAD"},
		},
		{
			name: "mixed changes",
			input: "## main\n" +
				"M  staged.go\n" +
				" M modified.go\n" +
				"MM both.go\n" +
				"A  added.go\n" +
				"R  old.go -> new.go\n" +
				"?? new.txt\n" +
				"?? other.txt\n" +
				"UU conflict.go\n" +
				"AA both-added.go\n",
			want: Status{Branch: "main", Staged: 4, Modified: 2, Untracked: 2, Conflicted: 2},
		},
		{
			name:  "crlf and blank lines",
			input: "## main\r\n\r\n M x\r\n",
			want:  Status{Branch: "main", Modified: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatus_Format(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Status{Branch: "main"}, "main"},
		{Status{Branch: "main", Staged: 2, Modified: 1, Untracked: 3}, "main +2 ~1 ?3"},
		{Status{Branch: "dev", Ahead: 1, Behind: 4, Conflicted: 1}, "dev ↑1 ↓4 !1"},
		{Status{}, ""},
	}

	for _, tt := range tests {
		if got := tt.status.Format(); got != tt.want {
			t.Errorf("Format(%+v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatus_Dirty(t *testing.T) {
	if (Status{Branch: "main", Ahead: 3}).Dirty() {
		t.Error("ahead-only status reported dirty")
	}

	if !(Status{Untracked: 1}).Dirty() {
		t.Error("untracked file not reported dirty")
	}
}

func TestSummary_OutsideRepoIsEmpty(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	if got := Summary(context.Background(), dir, 0); got != "" {
		t.Errorf("Summary() = %q, want empty", got)
	}
}

func TestQuery_RealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	if out, err := exec.Command("git", "-C", dir, "init", "-q", "-b", "main").CombinedOutput(); err != nil {
		t.Skipf("git init failed: %v (%s)", err, out)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Query(context.Background(), dir, 0)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if s.Branch != "main" || s.Untracked != 1 || !s.Dirty() {
		t.Errorf("Query() = %+v", s)
	}
}
