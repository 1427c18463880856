package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zalepa/campuscrime/dataset"
)

func TestMonthRange(t *testing.T) {
	records := []dataset.Incident{
		incident("Theft", "02/14/2023 10:00", "A", "Closed"),
		incident("Theft", "11/30/2022", "A", "Closed"),
		incident("Theft", "Unknown", "A", "Closed"),
	}
	assert.Equal(t, []string{"2022-11", "2022-12", "2023-01", "2023-02"}, MonthRange(records))
	assert.Empty(t, MonthRange(records[2:]))
}

func TestDistinctLists(t *testing.T) {
	incidents := []dataset.Incident{
		incident("Theft", "", "A", ""),
		incident("Assault", "", "A", ""),
		incident("Theft", "", "A", ""),
	}
	assert.Equal(t, []string{"Assault", "Theft"}, IncidentTypes(incidents))

	offenses := []dataset.Offense{
		offense("Robbery", "2021"),
		offense("Arson", "2019"),
		offense("Robbery", ""),
	}
	assert.Equal(t, []string{"2019", "2021"}, Years(offenses))
	assert.Equal(t, []string{"Arson", "Robbery"}, Offenses(offenses))
}

func TestDescribe(t *testing.T) {
	snap := &dataset.Snapshot{
		Name:     "UCLA.csv",
		Kind:     dataset.Yearly,
		Offenses: []dataset.Offense{offense("Robbery", "2021", 1)},
		LoadedAt: time.Now(),
	}
	m := Describe(snap)
	assert.Equal(t, 1, m.Records)
	assert.Equal(t, []string{"2021"}, m.Years)
	assert.Len(t, m.Locations, dataset.NumLocations)
	assert.Empty(t, m.IncidentTypes)
}
