package cleaner

import (
	"regexp"
	"strings"
)

// DefaultMetadataPatterns match report furniture that PDF exports leave
// between data rows.
var DefaultMetadataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*MANUALLY ADDED / EDITED`),
	regexp.MustCompile(`Page \d+ of \d+`),
	regexp.MustCompile(`APDC  \(Rev\.`),
	regexp.MustCompile(`Print Date:`),
	regexp.MustCompile(`\*\*VAWA PROTECTION`),
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func empties(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) == "" {
			n++
		}
	}
	return n
}

// isMetadata reports whether the joined row text matches any pattern.
func isMetadata(row []string, patterns []*regexp.Regexp) bool {
	var parts []string
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	text := strings.Join(parts, " ")
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// isHeader reports whether row repeats the header: at least minMatches of
// its cells equal a header name.
func isHeader(row, header []string, minMatches int) bool {
	matches := 0
	for _, c := range row {
		if strings.TrimSpace(c) == "" {
			continue
		}
		for _, h := range header {
			if equalFold(c, h) {
				matches++
				break
			}
		}
	}
	return matches >= minMatches
}

// mergeInto appends every populated cell of cont to the same column of dst.
func mergeInto(dst, cont []string) {
	for i, c := range cont {
		c = strings.TrimSpace(c)
		if c == "" || i >= len(dst) {
			continue
		}
		dst[i] = strings.TrimSpace(dst[i] + " " + c)
	}
}

// fit copies row, padding or truncating it to n cells.
func fit(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

var headerSpaceRe = regexp.MustCompile(`\s+`)

// cleanHeader trims names, collapses inner whitespace and drops a trailing
// colon.
func cleanHeader(h []string) []string {
	out := make([]string, len(h))
	for i, name := range h {
		name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ":"))
		out[i] = headerSpaceRe.ReplaceAllString(name, " ")
	}
	return out
}
