package stats

import "strings"

// Category is a broad offense grouping.
type Category string

const (
	ViolentCrimes  Category = "Violent Crimes"
	PropertyCrimes Category = "Property Crimes"
	DrugAlcohol    Category = "Drug/Alcohol Violations"
	OtherCrimes    Category = "Other Crimes"
	Miscellaneous  Category = "Miscellaneous"
)

// categoryKeywords is checked in order; the first list with a keyword
// contained in the label wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{ViolentCrimes, []string{"Murder", "Rape", "Robbery", "Aggravated Assault"}},
	{PropertyCrimes, []string{"Burglary", "Motor Vehicle Theft", "Arson", "Theft", "Vandalism"}},
	{DrugAlcohol, []string{"Drug Law Violations", "Liquor Law Violations", "Drug Arrests", "Alcohol Arrests"}},
	{OtherCrimes, []string{"Weapons Possession", "Hate Crimes", "Stalking", "Dating Violence", "Domestic Violence"}},
}

// Classify maps an offense label to its category using case-sensitive
// substring matching. Violent beats Property beats Drug/Alcohol beats Other.
func Classify(label string) Category {
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(label, kw) {
				return c.category
			}
		}
	}
	return Miscellaneous
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{ViolentCrimes, PropertyCrimes, DrugAlcohol, OtherCrimes, Miscellaneous}
}
