package exporter

import (
	"fmt"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// MinutesToHoursString renders minutes as "Xh Ym", e.g. 150 -> "2h 30m".
// Negative input renders as "0h 0m".
func MinutesToHoursString(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
