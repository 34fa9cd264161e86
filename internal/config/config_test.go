package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unsetEnvForTest unsets an environment variable and registers cleanup to
// restore its original state.
func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range Keys() {
		unsetEnvForTest(t, envName(key))
	}
}

func envName(key string) string {
	out := []rune(EnvPrefix + "_")
	for _, r := range key {
		switch {
		case r == '.':
			out = append(out, '_')
		case r >= 'a' && r <= 'z':
			out = append(out, r-'a'+'A')
		default:
			out = append(out, r)
		}
	}

	return string(out)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadFrom(t.TempDir())

	if err := cfg.LoadError(); err != nil {
		t.Fatalf("LoadError() = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"setup mode", cfg.SetupMode(), DefaultSetupMode},
		{"setup source", cfg.SetupSource(), ""},
		{"footer width", cfg.FooterWidth(), 0},
		{"notify bell", cfg.NotifyBell(), true},
		{"notify desktop", cfg.NotifyDesktop(), false},
		{"git timeout", cfg.GitTimeout(), DefaultGitTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_STUFF_SETUP_MODE", "copy")
	t.Setenv("AGENT_STUFF_FOOTER_WIDTH", "100")
	t.Setenv("AGENT_STUFF_NOTIFY_DESKTOP", "true")
	t.Setenv("AGENT_STUFF_GIT_TIMEOUT", "500ms")

	cfg := LoadFrom(t.TempDir())

	if got := cfg.SetupMode(); got != "copy" {
		t.Errorf("SetupMode() = %q, want copy", got)
	}

	if got := cfg.FooterWidth(); got != 100 {
		t.Errorf("FooterWidth() = %d, want 100", got)
	}

	if !cfg.NotifyDesktop() {
		t.Error("NotifyDesktop() = false, want true")
	}

	if got := cfg.GitTimeout(); got != 500*time.Millisecond {
		t.Errorf("GitTimeout() = %v, want 500ms", got)
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	content := "setup:\n  source: ~/dotfiles/agent-stuff\nnotify:\n  bell: false\n"

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := LoadFrom(dir)

	if got, want := cfg.SetupSource(), filepath.Join(home, "dotfiles", "agent-stuff"); got != want {
		t.Errorf("SetupSource() = %q, want %q", got, want)
	}

	if cfg.NotifyBell() {
		t.Error("NotifyBell() = true, want false from file")
	}
}

func TestLoad_BrokenFileReported(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("setup: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadFrom(dir).LoadError(); err == nil {
		t.Fatal("LoadError() = nil for malformed file")
	}
}

func TestSet_Persists(t *testing.T) {
	clearEnv(t)

	dir := filepath.Join(t.TempDir(), "nested")

	cfg := LoadFrom(dir)
	if err := cfg.Set(KeySetupMode, "copy"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	reloaded := LoadFrom(dir)
	if got := reloaded.SetupMode(); got != "copy" {
		t.Errorf("reloaded SetupMode() = %q, want copy", got)
	}
}

func TestGitTimeout_NonPositiveFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_STUFF_GIT_TIMEOUT", "0s")

	if got := LoadFrom("").GitTimeout(); got != DefaultGitTimeout {
		t.Errorf("GitTimeout() = %v, want default", got)
	}
}

func TestIsKnownKey(t *testing.T) {
	if !IsKnownKey(KeyFooterWidth) {
		t.Error("footer.width should be known")
	}

	if IsKnownKey("api.url") {
		t.Error("api.url should be unknown")
	}
}
