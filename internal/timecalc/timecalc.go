package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseHHMM parses a duration written as HH:MM and returns it in minutes.
// Hours may exceed 23 (period totals); minutes must be 00–59.
func ParseHHMM(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) < 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid HH:MM duration %q", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || strings.HasPrefix(h, "+") {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 || strings.HasPrefix(m, "+") {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	return hours*60 + mins, nil
}

// ValidHHMM reports whether s is a well-formed HH:MM duration.
func ValidHHMM(s string) bool {
	_, err := ParseHHMM(s)
	return err == nil
}

// FormatHHMM formats minutes as HH:MM, e.g. 150 → "02:30".
func FormatHHMM(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SumHHMM adds up HH:MM durations. Values that do not parse are skipped and
// counted in the second return value.
func SumHHMM(values []string) (string, int) {
	total, skipped := 0, 0
	for _, v := range values {
		m, err := ParseHHMM(v)
		if err != nil {
			skipped++
			continue
		}
		total += m
	}
	return FormatHHMM(total), skipped
}

// ExportDate returns the UTC calendar date of t as YYYY-MM-DD.
func ExportDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatElapsed formats a duration as a human-readable string like "1h 2m 3s",
// "2m 3s" or "3s".
func FormatElapsed(d time.Duration) string {
	seconds := int64(d.Round(time.Second).Seconds())
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
