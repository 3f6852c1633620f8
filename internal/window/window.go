// Package window resolves message-window keywords ("7d", "today", "all" and
// their spoken aliases) into an epoch-millisecond lower bound.
package window

import (
	"fmt"
	"strings"
	"time"
)

// Keys lists the canonical window choices in menu order.
var Keys = []string{"today", "2d", "7d", "14d", "30d", "60d", "365d", "all"}

// Labels maps each canonical key to its menu description.
var Labels = map[string]string{
	"today": "Today (since 00:00)",
	"2d":    "Last 2 days",
	"7d":    "Last 7 days",
	"14d":   "Last 14 days",
	"30d":   "Last 30 days",
	"60d":   "Last 60 days",
	"365d":  "Last 365 days",
	"all":   "All messages (no time filter)",
}

var days = map[string]int{
	"2d":   2,
	"7d":   7,
	"14d":  14,
	"30d":  30,
	"60d":  60,
	"365d": 365,
}

var aliases = map[string]string{
	"2days":         "2d",
	"couple days":   "2d",
	"couple day":    "2d",
	"7days":         "7d",
	"week":          "7d",
	"1w":            "7d",
	"14days":        "14d",
	"two weeks":     "14d",
	"2w":            "14d",
	"30days":        "30d",
	"month":         "30d",
	"1m":            "30d",
	"60days":        "60d",
	"2m":            "60d",
	"two months":    "60d",
	"couple months": "60d",
	"365days":       "365d",
	"year":          "365d",
	"1y":            "365d",
	"none":          "all",
	"no limit":      "all",
}

// Normalize maps user input to a canonical window key. Matching is
// case-insensitive and tolerant of -, _ and extra spaces as separators.
func Normalize(raw string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.ReplaceAll(norm, "-", " ")
	norm = strings.ReplaceAll(norm, "_", " ")
	norm = strings.Join(strings.Fields(norm), " ")

	if canon, ok := aliases[norm]; ok {
		return canon, nil
	}
	if norm == "today" || norm == "all" {
		return norm, nil
	}
	if _, ok := days[norm]; ok {
		return norm, nil
	}
	return "", fmt.Errorf("invalid window %q (choices: %s)", raw, strings.Join(Keys, ", "))
}

// SinceMillis returns the epoch-ms lower bound for a canonical key relative
// to now. Zero means unbounded ("all"), "today" means local midnight.
func SinceMillis(key string, now time.Time) int64 {
	switch {
	case key == "all":
		return 0
	case key == "today":
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return midnight.UnixMilli()
	default:
		n, ok := days[key]
		if !ok {
			return 0
		}
		return now.Add(-time.Duration(n) * 24 * time.Hour).UnixMilli()
	}
}
