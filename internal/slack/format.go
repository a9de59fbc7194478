package slack

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatNumber abbreviates large counters the way the feed displays them
func formatNumber(n int) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1_000), ".0") + "K"
	}
	return strconv.Itoa(n)
}

// timeAgo renders the age of t in the largest whole unit that exceeds one
func timeAgo(t, now time.Time) string {
	seconds := now.Sub(t).Seconds()

	units := []struct {
		size   float64
		suffix string
	}{
		{31536000, "y"},
		{2592000, "mo"},
		{86400, "d"},
		{3600, "h"},
		{60, "m"},
	}

	for _, u := range units {
		if v := seconds / u.size; v > 1 {
			return fmt.Sprintf("%d%s", int(v), u.suffix)
		}
	}
	return fmt.Sprintf("%ds", int(seconds))
}

// preview shortens s to max runes with a trailing ellipsis
func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
