package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// acronyms keep their capitals after title casing.
var acronyms = map[string]string{
	"Id":   "ID",
	"Dui":  "DUI",
	"Dwi":  "DWI",
	"Pd":   "PD",
	"Ucla": "UCLA",
	"Uc":   "UC",
	"Usa":  "USA",
}

var wordRe = regexp.MustCompile(`\b[A-Za-z]+\b`)

// isAllCaps reports whether s has at least one letter and no lower case
// letters.
func isAllCaps(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// FixCaps title-cases values written entirely in capitals, e.g.
// "MAIN LIBRARY" -> "Main Library". Mixed-case values are returned as is.
func FixCaps(s string) string {
	if !isAllCaps(s) {
		return s
	}
	out := cases.Title(language.English).String(s)
	return wordRe.ReplaceAllStringFunc(out, func(w string) string {
		if a, ok := acronyms[w]; ok {
			return a
		}
		return w
	})
}

var (
	dispositionNoise = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
		regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{2,4}`),
		regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{2,4}`),
		regexp.MustCompile(`\d{1,2}:\d{2}(:\d{2})?(\s*[AP]M)?`),
		regexp.MustCompile(`\d{1,2}[AP]M`),
	}
	statusColonRe = regexp.MustCompile(`\b(Inactive|Closed|Open|Pending):\s*`)
	spaceRe       = regexp.MustCompile(`\s+`)

	dispositionAbbrev = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\bCLSD\b`), "CLOSED"},
		{regexp.MustCompile(`\bClsd\b`), "Closed"},
		{regexp.MustCompile(`\bOPEN/ACTIVE\b`), "OPEN"},
		{regexp.MustCompile(`\bOpen/Active\b`), "Open"},
		{regexp.MustCompile(`\bPEND\b`), "PENDING"},
		{regexp.MustCompile(`\bPend\b`), "Pending"},
		{regexp.MustCompile(`\bUNFND\b`), "UNFOUNDED"},
		{regexp.MustCompile(`\bUnfnd\b`), "Unfounded"},
		{regexp.MustCompile(`\bInact\b`), "Inactive"},
		{regexp.MustCompile(`\bREF\b`), "REFERRED"},
	}
)

// StandardizeDisposition strips dates and times from a disposition and
// expands common abbreviations: "Clsd 01/02/2023 10:00" -> "Closed".
func StandardizeDisposition(s string) string {
	for _, re := range dispositionNoise {
		s = re.ReplaceAllString(s, "")
	}
	s = statusColonRe.ReplaceAllString(s, "${1} ")
	for _, a := range dispositionAbbrev {
		s = a.re.ReplaceAllString(s, a.repl)
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
