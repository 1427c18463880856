package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects the dataset family and the sub-directory it is stored under.
type Kind string

const (
	// Daily datasets are incident logs, one row per reported incident.
	Daily Kind = "daily"
	// Yearly datasets are offense tallies per year and location.
	Yearly Kind = "yearly"
)

// ParseKind accepts "daily" or "yearly" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily, nil
	case Yearly:
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Unknown fills required daily fields that are missing from a row.
const Unknown = "Unknown"

// Field is one column of a raw row.
type Field struct {
	Name  string
	Value string
}

// RawRow is one parsed data row in column order. Columns missing from a short
// row are absent rather than empty.
type RawRow []Field

// Populated counts the columns holding a non-blank value.
func (r RawRow) Populated() int {
	n := 0
	for _, f := range r {
		if strings.TrimSpace(f.Value) != "" {
			n++
		}
	}
	return n
}

// Get returns the value of the last column called name.
func (r RawRow) Get(name string) (string, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Name == name {
			return r[i].Value, true
		}
	}
	return "", false
}

// Incident is a normalized daily record. The four content fields are never
// empty.
type Incident struct {
	IncidentType string            `json:"incidentType"`
	OccurredAt   string            `json:"occurredAt"`
	Location     string            `json:"location"`
	Disposition  string            `json:"disposition"`
	SourceFile   string            `json:"sourceFile"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// Location is one of the four fixed Clery reporting locations.
type Location int

const (
	ResidentialFacility Location = iota
	NonResidentialFacility
	PublicProperty
	NonCampusProperty

	NumLocations = 4
)

var locationNames = [NumLocations]string{
	"Residential Facility",
	"Non Residential Facility",
	"Public Property",
	"Non Campus Building or Property",
}

func (l Location) String() string {
	if l < 0 || int(l) >= NumLocations {
		return fmt.Sprintf("Location(%d)", int(l))
	}
	return locationNames[l]
}

// MarshalText encodes the display name.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Locations lists every location in display order.
func Locations() []Location {
	return []Location{ResidentialFacility, NonResidentialFacility, PublicProperty, NonCampusProperty}
}

// ParseLocation matches a location display name, ignoring case and
// surrounding whitespace.
func ParseLocation(s string) (Location, bool) {
	s = strings.TrimSpace(s)
	for i, name := range locationNames {
		if strings.EqualFold(s, name) {
			return Location(i), true
		}
	}
	return 0, false
}

// Count is an offense tally for one location. Valid is false when the column
// is absent or blank for the row, which means "not applicable", not zero.
type Count struct {
	Value int
	Valid bool
}

// Offense is a normalized yearly record.
type Offense struct {
	CriminalOffense string              `json:"criminalOffense"`
	Year            string              `json:"year"`
	Counts          [NumLocations]Count `json:"-"`
	SourceFile      string              `json:"sourceFile"`
}

// Count returns the tally for loc.
func (o Offense) Count(loc Location) (int, bool) {
	c := o.Counts[loc]
	return c.Value, c.Valid
}

// Total sums the valid tallies across all four locations.
func (o Offense) Total() int {
	total := 0
	for _, c := range o.Counts {
		if c.Valid {
			total += c.Value
		}
	}
	return total
}

// Snapshot is a fully loaded dataset. It is never modified after Load returns
// it; owners swap in a new Snapshot on reload.
type Snapshot struct {
	Name      string
	Kind      Kind
	Incidents []Incident
	Offenses  []Offense
	// Sources lists the files that contributed records, Failed the ones that
	// could not be loaded in combined mode.
	Sources  []string
	Failed   []string
	LoadedAt time.Time
}

// Len is the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s.Kind == Yearly {
		return len(s.Offenses)
	}
	return len(s.Incidents)
}
