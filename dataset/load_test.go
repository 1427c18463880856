package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyCSV = `Incident Type,Date/Time Occurred,Location,Disposition
Theft $1,"01/05/2023 10:00",Library,Closed
Assault,01/06/2023 23:59,Dorm,Open
`

func newLoader(root string, files ...string) *Loader {
	return &Loader{
		Resolver:    NewResolver([]string{root}, ResolverOptions{}),
		Files:       map[Kind][]string{Daily: files, Yearly: files},
		Concurrency: 2,
		Now:         func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestLoadSingle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, Daily, "UCLA.csv", dailyCSV)

	snap, err := newLoader(root).Load(context.Background(), Daily, "UCLA.csv")
	require.NoError(t, err)
	assert.Equal(t, "UCLA.csv", snap.Name)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, "Theft $1", snap.Incidents[0].IncidentType)
	assert.Equal(t, []string{"UCLA.csv"}, snap.Sources)
}

func TestLoadSingleFailures(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, Daily, "Blank.csv", "Incident Type,Location\nTheft,\n,Dorm\n")

	l := newLoader(root)
	_, err := l.Load(context.Background(), Daily, "Missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.Load(context.Background(), Daily, "Blank.csv")
	assert.ErrorIs(t, err, ErrNoValidRecords)

	_, err = l.Load(context.Background(), Kind("weekly"), "Blank.csv")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoadCombinedSkipsFailures(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, Daily, "A.csv", dailyCSV)
	writeFile(t, root, Daily, "C.csv", "Incident Type,Location\nFraud,Gym\n")

	snap, err := newLoader(root, "A.csv", "B.csv", "C.csv").Load(context.Background(), Daily, CombineAll)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"A.csv", "C.csv"}, snap.Sources)
	assert.Equal(t, []string{"B.csv"}, snap.Failed)

	// Records keep source order.
	assert.Equal(t, "A.csv", snap.Incidents[0].SourceFile)
	assert.Equal(t, "C.csv", snap.Incidents[2].SourceFile)
}

func TestLoadCombinedAllFail(t *testing.T) {
	_, err := newLoader(t.TempDir(), "A.csv", "B.csv", "C.csv").Load(context.Background(), Daily, CombineAll)
	assert.ErrorIs(t, err, ErrAllSourcesFailed)
}

func TestLoadYearly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, Yearly, "GCU.csv", "Criminal Offenses,Year,Public Property\nRobbery,2021,2\n")

	snap, err := newLoader(root).Load(context.Background(), Yearly, "GCU.csv")
	require.NoError(t, err)
	require.Len(t, snap.Offenses, 1)
	assert.Equal(t, 2, snap.Offenses[0].Total())
	assert.Empty(t, snap.Incidents)
}
