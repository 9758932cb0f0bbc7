package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultTruncateLength = 200
	MaxScore              = 5.0
)

func FormatDate(t BackendTime) string {
	if !t.Valid() {
		return NotAvailable
	}
	return t.Format("02/01/2006")
}

func FormatDateTime(t BackendTime) string {
	if !t.Valid() {
		return NotAvailable
	}
	return t.Format("02/01/2006 15:04")
}

// FormatDateValue formats a raw backend value. Missing values print "N/A", present but
// unparseable ones "Fecha inválida".
func FormatDateValue(v any) string {
	if v == nil {
		return NotAvailable
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	t, ok := ParseBackendDate(v)
	if !ok {
		return InvalidDate
	}
	return t.Format("02/01/2006 15:04")
}

// TruncateText cuts s to n runes and appends "...". n <= 0 uses the default length.
func TruncateText(s string, n int) string {
	if n <= 0 {
		n = DefaultTruncateLength
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f/5", score)
}

func FormatPercentage(score float64) string {
	return fmt.Sprintf("%.1f%%", score/MaxScore*100)
}

// OrDefault returns fallback for an empty string.
func OrDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
