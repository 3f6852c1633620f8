// Package export writes chat transcripts into timestamped folders.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
)

// DefaultRoot is the directory exports land in, relative to the working
// directory.
const DefaultRoot = "exports"

var (
	spaceRuns = regexp.MustCompile(`\s+`)
	nonSlug   = regexp.MustCompile(`[^a-z0-9-]+`)
)

// Slug converts a chat title into a filesystem-safe directory suffix. Titles
// with nothing usable slug to "".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	if s == "" {
		return ""
	}
	s = spaceRuns.ReplaceAllString(s, "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	// Only ASCII remains at this point, so byte slicing is rune safe.
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	return s
}

// Write creates a fresh directory under root named after the current time
// and the chat title, writes transcript.txt and messages.csv into it, and
// returns the directory path.
func Write(root, chatTitle, transcript string, msgs []beeper.Message) (string, error) {
	base := time.Now().Format("2006-01-02-15-04-05")
	if slug := Slug(chatTitle); slug != "" {
		base += "-" + slug
	}

	dir := uniqueDir(root, base)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	transcriptPath := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(transcript+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	if err := writeMessagesCSV(filepath.Join(dir, "messages.csv"), msgs); err != nil {
		return "", err
	}
	return dir, nil
}

// uniqueDir returns root/base, suffixed with -2, -3, ... until the name is
// unused. Any stat failure reads as unused; MkdirAll then surfaces whatever
// is actually wrong with the root.
func uniqueDir(root, base string) string {
	dir := filepath.Join(root, base)
	for n := 2; ; n++ {
		if _, err := os.Stat(dir); err != nil {
			return dir
		}
		dir = filepath.Join(root, fmt.Sprintf("%s-%d", base, n))
	}
}

type messageRow struct {
	TimestampMillis int64  `csv:"timestamp_ms"`
	Sender          string `csv:"sender"`
	FromMe          bool   `csv:"from_me"`
	Text            string `csv:"text"`
}

func writeMessagesCSV(path string, msgs []beeper.Message) error {
	rows := make([]messageRow, 0, len(msgs))
	for _, m := range msgs {
		sender := m.SenderName
		if m.IsFromMe {
			sender = "You"
		}
		rows = append(rows, messageRow{
			TimestampMillis: m.TimestampMillis,
			Sender:          sender,
			FromMe:          m.IsFromMe,
			Text:            m.Text,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create messages.csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write messages.csv: %w", err)
	}
	return nil
}
