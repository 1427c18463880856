package stats

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayout accepts one- or two-digit months and days and a four-digit year.
const dateLayout = "1/2/2006"

// dollarPattern matches "$" followed by digits with optional thousands
// separators and an optional decimal part.
var dollarPattern = regexp.MustCompile(`\$(\d+(?:,\d+)*(?:\.\d+)?)`)

// displayWeekdays is the histogram order.
var displayWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// splitOccurred returns the date token and, when present, the time token of
// an occurred-at value such as "01/05/2023 10:00".
func splitOccurred(occurredAt string) (date, clock string) {
	fields := strings.Fields(occurredAt)
	if len(fields) > 0 {
		date = fields[0]
	}
	if len(fields) > 1 {
		clock = fields[1]
	}
	return date, clock
}

// ParseDate returns the calendar date of an occurred-at value. Missing,
// malformed or impossible dates (month 13, February 30) report false.
func ParseDate(occurredAt string) (time.Time, bool) {
	tok, _ := splitOccurred(occurredAt)
	if tok == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, tok)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Weekday returns the day of the week of the parsed date.
func Weekday(occurredAt string) (time.Weekday, bool) {
	t, ok := ParseDate(occurredAt)
	if !ok {
		return 0, false
	}
	return t.Weekday(), true
}

// Hour returns the hour of the time token, valid only in [0,23].
func Hour(occurredAt string) (int, bool) {
	_, clock := splitOccurred(occurredAt)
	if clock == "" {
		return 0, false
	}
	h, err := strconv.Atoi(strings.SplitN(clock, ":", 2)[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// MonthKey builds "YYYY-MM" straight from the MM/DD/YYYY text tokens, without
// going through a parsed time, so no timezone can shift the month.
func MonthKey(occurredAt string) (string, bool) {
	tok, _ := splitOccurred(occurredAt)
	parts := strings.Split(tok, "/")
	if len(parts) != 3 || !isDigits(parts[1]) || len(parts[2]) != 4 || !isDigits(parts[2]) {
		return "", false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	return parts[2] + "-" + leftPad2(m), true
}

func leftPad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DollarAmount extracts the first "$" amount embedded in an incident type,
// e.g. "Theft $1,234.50" -> 1234.5.
func DollarAmount(incidentType string) (float64, bool) {
	m := dollarPattern.FindStringSubmatch(incidentType)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
