package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"

	"sheetcheck/pkg/contracts/domain"
)

// Layouts commonly found in timesheet exports, tried before the generic parser.
// Month-first slash dates win over day-first ones.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01-02-06",
	"1-2-06",
	"2006/01/02",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Monday, January 2, 2006",
}

// Excel serial bounds: 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

var (
	ticketURLPattern  = regexp.MustCompile(`#!/(\d+)$`)
	clockPattern      = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	hoursMinutesRegex = regexp.MustCompile(`^(?:(\d+(?:\.\d+)?)\s*h)?\s*(?:(\d+)\s*m)?`)
	numericTextRegex  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// ParseDate interprets a cell value as a date.
// A non-zero time.Time is returned as is, numbers are read as Excel serials and
// text goes through known layouts and then a generic parser. Anything else,
// including empty input, yields false; ambiguity is never an error.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return parseDateString(v)
	}

	if f, ok := toFloat(value); ok {
		return excelSerialToTime(f)
	}
	return parseDateString(fmt.Sprint(value))
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if numericTextRegex.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		return excelSerialToTime(f)
	}
	return parseDateText(s)
}

// parseDateText only accepts non-numeric text.
func parseDateText(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func excelSerialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// calendarDay drops the clock part, keeping the date as written in t's location.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// durationSource records which rule produced a Time Spent value.
type durationSource int

const (
	durationParsed durationSource = iota
	durationEmptyFallback
	durationUnparsedFallback
)

// ParseTimeSpent converts a Time Spent cell to whole minutes.
//
// Empty values fall back to productiveHours*60. Numbers are hours or minutes
// depending on mode. Text may be "H:MM", "<n>h <n>m" (either part optional)
// or a bare number. Unrecognised text also falls back to productive hours.
// The result is never negative.
func ParseTimeSpent(value any, productiveHours float64, mode domain.DurationMode) int {
	minutes, _ := parseTimeSpent(value, productiveHours, mode)
	return minutes
}

func parseTimeSpent(value any, productiveHours float64, mode domain.DurationMode) (int, durationSource) {
	if value == nil {
		return fallbackMinutes(productiveHours), durationEmptyFallback
	}

	if f, ok := toFloat(value); ok {
		return numericMinutes(f, mode), durationParsed
	}

	text := strings.ToLower(strings.TrimSpace(cellText(value)))
	if text == "" {
		return fallbackMinutes(productiveHours), durationEmptyFallback
	}

	if m := clockPattern.FindStringSubmatch(text); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		mm, _ := strconv.ParseFloat(m[2], 64)
		return clampMinutes(h*60 + mm), durationParsed
	}

	if m := hoursMinutesRegex.FindStringSubmatch(text); m != nil && (m[1] != "" || m[2] != "") {
		var hours, mins float64
		if m[1] != "" {
			hours, _ = strconv.ParseFloat(m[1], 64)
		}
		if m[2] != "" {
			mins, _ = strconv.ParseFloat(m[2], 64)
		}
		return clampMinutes(math.Round(hours*60 + mins)), durationParsed
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return numericMinutes(f, mode), durationParsed
	}

	return fallbackMinutes(productiveHours), durationUnparsedFallback
}

func numericMinutes(v float64, mode domain.DurationMode) int {
	if mode == domain.DurationMinutes {
		return clampMinutes(math.Round(v))
	}
	return clampMinutes(math.Round(v * 60))
}

func fallbackMinutes(productiveHours float64) int {
	if productiveHours <= 0 || math.IsNaN(productiveHours) {
		return 0
	}
	return clampMinutes(math.Round(productiveHours * 60))
}

func clampMinutes(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// ExtractTicket shortens ticket URLs ending in "#!/<digits>" to "#<digits>".
// Anything else is returned unchanged.
func ExtractTicket(ticket string) string {
	if m := ticketURLPattern.FindStringSubmatch(ticket); m != nil {
		return "#" + m[1]
	}
	return ticket
}

// ParseProductive reads the Productive column as hours.
// Blank, non-numeric and negative values are 0.
func ParseProductive(value any) float64 {
	f, ok := toFloat(value)
	if !ok {
		text := strings.TrimSpace(cellText(value))
		if text == "" {
			return 0
		}
		var err error
		if f, err = strconv.ParseFloat(text, 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	}
	return 0, false
}

// cellText renders a cell value as text. Dates use ISO form.
func cellText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
