package seed

import (
	"io"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/directory"
	"go.senan.xyz/fyyur/multierr"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newStore(t *testing.T) *directory.Store {
	t.Helper()
	dbc, err := db.NewMock()
	require.NoError(t, err)
	require.NoError(t, dbc.Migrate(db.MigrationContext{}))
	t.Cleanup(func() { dbc.Close() })
	store := directory.New(dbc)
	store.Now = func() time.Time { return time.Date(2024, 10, 19, 20, 0, 0, 0, time.UTC) }
	return store
}

func TestDemo(t *testing.T) {
	t.Parallel()

	fixtures, err := Demo()
	require.NoError(t, err)
	require.Len(t, fixtures.Venues, 3)
	require.Len(t, fixtures.Artists, 3)
	require.Len(t, fixtures.Shows, 5)

	// the string form is read the same as a list
	assert.Equal(t, Genres{"Classical", "R&B", "Hip-Hop"}, fixtures.Venues[1].Genres)
	assert.Equal(t, time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC), fixtures.Shows[2].StartTime.UTC())

	store := newStore(t)
	applied, err := ApplyIfEmpty(store, fixtures)
	require.NoError(t, err)
	assert.True(t, applied)

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, directory.Counts{Venues: 3, Artists: 3, Shows: 5, UpcomingShows: 3}, *counts)

	results, err := store.SearchVenues("Music")
	require.NoError(t, err)
	assert.Equal(t, 2, results.Count)

	// a second run finds the directory populated
	applied, err = ApplyIfEmpty(store, fixtures)
	require.NoError(t, err)
	assert.False(t, applied)
	counts, err = store.Counts()
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Venues)
}

func TestApplyCollectsErrors(t *testing.T) {
	t.Parallel()

	fixtures, err := Parse(strings.NewReader(`
venues:
  - name: Blue Note
    city: New York
    state: NY
    address: 131 W 3rd St
    genres: Jazz, Blues
artists:
  - name: Matt Quevedo
    city: New York
    state: NY
    genres: [Jazz]
shows:
  - artist: Matt Quevedo
    venue: Blue Note
    start_time: 2035-01-01T20:00:00Z
  - artist: Nobody
    venue: Blue Note
    start_time: 2035-01-01T20:00:00Z
  - artist: Matt Quevedo
    venue: Nowhere
    start_time: 2035-01-01T20:00:00Z
`))
	require.NoError(t, err)

	store := newStore(t)
	err = Apply(store, fixtures)
	require.Error(t, err)
	var errs multierr.Err
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, 2, errs.Len())
	assert.Contains(t, err.Error(), `unknown artist "Nobody"`)
	assert.Contains(t, err.Error(), `unknown venue "Nowhere"`)

	shows, err := store.Shows()
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "Blue Note", shows[0].VenueName)

	venue, err := store.Venue(shows[0].VenueID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz", "Blues"}, venue.Genres)
}

func TestParseUnknownField(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("venues:\n  - name: x\n    colour: red\n"))
	require.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	fixtures, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fixtures.Venues)
}
