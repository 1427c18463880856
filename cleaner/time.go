package cleaner

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dateRangeRe  = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})-\d{1,2}/\d{1,2}/\d{2,4}`)
	splitRangeRe = regexp.MustCompile(`(\d{1,2}:\d{2})-\s*\n\s*\d{1,2}:\d{2}`)
	clockRangeRe = regexp.MustCompile(`(\d{1,2}:\d{2})-\d{1,2}:\d{2}`)
	// stampRe matches "HHMM MM-DD-YYYY".
	stampRe       = regexp.MustCompile(`\b(\d{2})(\d{2})\s+(\d{2})-(\d{2})-(\d{4})\b`)
	compactTimeRe = regexp.MustCompile(`\b(\d{3,4})(?:-\d{3,4})?\b`)
)

// neighbours that mark a number as part of a date, amount or clock rather
// than a compact time.
const numberNeighbours = "/:.,$-"

// FormatTimes rewrites the time notations found in crime logs into H:MM.
//
//	"2/17/2025 906"         -> "2/17/2025 9:06"
//	"0836-0917 Conference"  -> "08:36 Conference"
//	"12:00-12:30"           -> "12:00"
//	"12/4/2024-12/5/2024"   -> "12/4/2024"
//	"0214 03-23-2025"       -> "03/23/2025 02:14"
//
// Ranges keep their first value. Digits that are part of a date, a dollar
// amount or a longer number are left alone, as are values that are not a
// valid clock time such as "1275".
func FormatTimes(s string) string {
	s = dateRangeRe.ReplaceAllString(s, "${1}")
	s = splitRangeRe.ReplaceAllString(s, "${1}")
	s = clockRangeRe.ReplaceAllString(s, "${1}")

	if stampRe.MatchString(s) {
		return stampRe.ReplaceAllString(s, "${3}/${4}/${5} ${1}:${2}")
	}

	matches := compactTimeRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && strings.IndexByte(numberNeighbours, s[start-1]) >= 0 {
			continue
		}
		if end < len(s) && strings.IndexByte(numberNeighbours, s[end]) >= 0 {
			continue
		}
		clock, ok := compactClock(s[m[2]:m[3]])
		if !ok {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(clock)
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// compactClock turns "906" into "9:06" and "1230" into "12:30".
func compactClock(digits string) (string, bool) {
	split := len(digits) - 2
	h, err := strconv.Atoi(digits[:split])
	if err != nil || h > 23 {
		return "", false
	}
	m, err := strconv.Atoi(digits[split:])
	if err != nil || m > 59 {
		return "", false
	}
	return digits[:split] + ":" + digits[split:], true
}
