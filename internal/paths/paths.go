package paths

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.beeper-triage, or $BEEPER_TRIAGE_HOME when set.
func BaseDir() string {
	if dir := os.Getenv("BEEPER_TRIAGE_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".beeper-triage")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// CacheDBPath returns the chat snapshot database path.
func CacheDBPath() string {
	return filepath.Join(BaseDir(), "cache.db")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the tool log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "triage.log")
}

// EnsureDirs creates the base directory tree with proper permissions.
func EnsureDirs() error {
	dirs := []string{
		BaseDir(),
		LogDir(),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
