// Package clipboard pipes text into the first available system clipboard
// tool.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// candidates are tried in order; the first whose binary is on PATH wins.
// clip.exe covers WSL.
var candidates = [][]string{
	{"clip.exe"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// ErrNoTool reports that no supported clipboard tool is installed.
var ErrNoTool = errors.New("no clipboard tool found")

// Copy pipes text into the system clipboard.
func Copy(text string) error {
	argv := detect()
	if argv == nil {
		return ErrNoTool
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard copy via %s: %w", argv[0], err)
	}
	return nil
}

func detect() []string {
	for _, argv := range candidates {
		if _, err := exec.LookPath(argv[0]); err == nil {
			return argv
		}
	}
	return nil
}
