// Package editor opens the user's text editor on a reply draft.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNotConfigured reports that no editor command is configured.
var ErrNotConfigured = errors.New("no editor configured (set EDITOR)")

// Edit writes initial to a temp file, opens it in the given editor with the
// terminal attached, and returns the edited content trimmed. The temp file
// is removed afterwards.
func Edit(editorCmd, initial string) (string, error) {
	if editorCmd == "" {
		return "", ErrNotConfigured
	}

	f, err := os.CreateTemp("", "beeper-triage-*.txt")
	if err != nil {
		return "", fmt.Errorf("create draft file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(initial); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write draft file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write draft file: %w", err)
	}

	cmd := exec.Command(editorCmd, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", editorCmd, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read draft file: %w", err)
	}
	return strings.TrimSpace(string(edited)), nil
}
