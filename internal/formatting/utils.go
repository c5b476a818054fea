package formatting

import (
	"math"
	"strconv"
	"time"
)

// FormatPercentage renders p with at most two decimals and a percent sign.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(math.Round(p*100)/100, 'f', -1, 64) + "%"
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// clock renders an optional "HH:MM:SS" time as "HH:MM".
func clock(t *string) string {
	if t == nil || *t == "" {
		return "-"
	}
	if parsed, err := time.Parse("15:04:05", *t); err == nil {
		return parsed.Format("15:04")
	}
	return *t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
