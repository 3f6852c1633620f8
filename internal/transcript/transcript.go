// Package transcript renders message history as readable text.
package transcript

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
)

// Render formats msgs oldest-first, one line per message. Messages whose
// text is empty after trimming are skipped. With stamps enabled each line
// carries the local send time.
func Render(msgs []beeper.Message, stamps bool) string {
	ordered := sortedByTime(msgs)

	var b strings.Builder
	for _, m := range ordered {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if stamps {
			at := time.UnixMilli(m.TimestampMillis).Format("2006-01-02 15:04")
			fmt.Fprintf(&b, "[%s] %s: %s", at, speaker(m), text)
		} else {
			fmt.Fprintf(&b, "%s: %s", speaker(m), text)
		}
	}
	return b.String()
}

// LastInboundID returns the id of the newest message not sent by the user,
// or "" when every message is outbound.
func LastInboundID(msgs []beeper.Message) string {
	ordered := sortedByTime(msgs)
	for i := len(ordered) - 1; i >= 0; i-- {
		if !ordered[i].IsFromMe {
			return ordered[i].ID
		}
	}
	return ""
}

func sortedByTime(msgs []beeper.Message) []beeper.Message {
	ordered := make([]beeper.Message, len(msgs))
	copy(ordered, msgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampMillis < ordered[j].TimestampMillis
	})
	return ordered
}

func speaker(m beeper.Message) string {
	if m.IsFromMe {
		return "You"
	}
	if m.SenderName != "" {
		return m.SenderName
	}
	return "Unknown"
}
