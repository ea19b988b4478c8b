package tui

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	tableDateLayout = "January 2, 2006 15:04:05"
	cardDateLayout  = "January 2, 2006"
)

// truncateEnd shortens s to at most limit characters, appending an ellipsis
// if truncation occurs. Handles negative or tiny limits gracefully.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle shortens s to at most limit characters by preserving the
// start and end of the string with a single ellipsis in the middle.
// Useful for URLs where both ends carry meaning.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	return string(r[:left]) + "…" + string(r[n-right:])
}

func formatTableDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(tableDateLayout)
}

func formatCardDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(cardDateLayout)
}

// relativeTime is "3 hours ago" style, used where space is tight.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
