package cleaner

import (
	"sort"
	"strings"
	"unicode"
)

// buildingSuffixes are dropped from the end of a location before comparing.
// Longer suffixes come first so "BUILDING" is tried before "BLD".
var buildingSuffixes = []string{"BUILDING", "BLDG", "BLD"}

// streetAbbrev expands common street abbreviations word by word.
var streetAbbrev = map[string]string{
	"ST":   "STREET",
	"AVE":  "AVENUE",
	"AV":   "AVENUE",
	"RD":   "ROAD",
	"DR":   "DRIVE",
	"BLVD": "BOULEVARD",
	"LN":   "LANE",
	"CTR":  "CENTER",
	"CNTR": "CENTER",
	"RES":  "RESIDENCE",
}

// variantKey reduces a location to the form used to spot variants: upper
// case, punctuation removed, abbreviations expanded and a trailing building
// designation stripped.
func variantKey(name string) string {
	fields := strings.FieldsFunc(strings.ToUpper(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '&'
	})
	for i, f := range fields {
		if full, ok := streetAbbrev[f]; ok {
			fields[i] = full
		}
	}
	if n := len(fields); n > 1 {
		for _, suffix := range buildingSuffixes {
			if fields[n-1] == suffix {
				fields = fields[:n-1]
				break
			}
		}
	}
	return strings.Join(fields, " ")
}

// Variant is a spelling of a value that likely names the same place as Keep.
type Variant struct {
	Key          string
	Keep         string
	Replace      string
	KeepCount    int
	ReplaceCount int
}

// FindVariants groups the values of column col by variantKey and proposes
// merging every minority spelling into the most frequent one.
func FindVariants(t Table, col int) []Variant {
	if col < 0 {
		return nil
	}
	// key -> spelling -> rows
	groups := make(map[string]map[string]int)
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		key := variantKey(v)
		if groups[key] == nil {
			groups[key] = make(map[string]int)
		}
		groups[key][v]++
	}

	var variants []Variant
	for key, spellings := range groups {
		if len(spellings) < 2 {
			continue
		}
		names := make([]string, 0, len(spellings))
		for n := range spellings {
			names = append(names, n)
		}
		// Keeper: most rows, then alphabetical.
		sort.Slice(names, func(i, j int) bool {
			if spellings[names[i]] != spellings[names[j]] {
				return spellings[names[i]] > spellings[names[j]]
			}
			return names[i] < names[j]
		})
		for _, n := range names[1:] {
			variants = append(variants, Variant{
				Key:          key,
				Keep:         names[0],
				Replace:      n,
				KeepCount:    spellings[names[0]],
				ReplaceCount: spellings[n],
			})
		}
	}

	sort.Slice(variants, func(i, j int) bool {
		if variants[i].Keep != variants[j].Keep {
			return variants[i].Keep < variants[j].Keep
		}
		return variants[i].Replace < variants[j].Replace
	})
	return variants
}

// ApplyVariants rewrites column col using merges (old spelling -> keeper)
// and returns the number of cells changed.
func ApplyVariants(t Table, col int, merges map[string]string) int {
	if col < 0 || len(merges) == 0 {
		return 0
	}
	applied := 0
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		if keep, ok := merges[strings.TrimSpace(row[col])]; ok {
			row[col] = keep
			applied++
		}
	}
	return applied
}
