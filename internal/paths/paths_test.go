package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBaseDirDefault(t *testing.T) {
	t.Setenv("BEEPER_TRIAGE_HOME", "")
	home, _ := os.UserHomeDir()
	got := BaseDir()
	want := filepath.Join(home, ".beeper-triage")
	if got != want {
		t.Errorf("BaseDir() = %q, want %q", got, want)
	}
}

func TestBaseDirOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BEEPER_TRIAGE_HOME", tmp)
	if got := BaseDir(); got != tmp {
		t.Errorf("BaseDir() = %q, want %q", got, tmp)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("BEEPER_TRIAGE_HOME", "")
	got := ConfigPath()
	if !strings.HasSuffix(got, filepath.Join(".beeper-triage", "config.toml")) {
		t.Errorf("ConfigPath() = %q, want suffix .beeper-triage/config.toml", got)
	}
}

func TestCacheDBPath(t *testing.T) {
	t.Setenv("BEEPER_TRIAGE_HOME", "")
	got := CacheDBPath()
	if !strings.HasSuffix(got, filepath.Join(".beeper-triage", "cache.db")) {
		t.Errorf("CacheDBPath() = %q, want suffix .beeper-triage/cache.db", got)
	}
}

func TestLogPath(t *testing.T) {
	t.Setenv("BEEPER_TRIAGE_HOME", "")
	got := LogPath()
	if !strings.HasSuffix(got, filepath.Join("logs", "triage.log")) {
		t.Errorf("LogPath() = %q, want suffix logs/triage.log", got)
	}
}

func TestEnsureDirs(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BEEPER_TRIAGE_HOME", filepath.Join(tmp, "home"))

	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error: %v", err)
	}

	info, err := os.Stat(LogDir())
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("log dir is not a directory")
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("log dir perms = %o, want 0700", info.Mode().Perm())
	}
}
