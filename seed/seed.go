// Package seed loads venues, artists, and shows from a yaml fixture file
// into an empty directory
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/directory"
	"go.senan.xyz/fyyur/multierr"
)

//go:embed demo.yaml
var demo []byte

// Genres accepts either a yaml list or the older "{Jazz,Reggae}" string form
type Genres []string

func (g *Genres) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*g = directory.ParseGenres(value.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*g = directory.NormaliseGenres(list)
		return nil
	default:
		return fmt.Errorf("line %d: genres must be a list or a string", value.Line)
	}
}

type Venue struct {
	Name               string `yaml:"name"`
	City               string `yaml:"city"`
	State              string `yaml:"state"`
	Address            string `yaml:"address"`
	Phone              string `yaml:"phone"`
	Genres             Genres `yaml:"genres"`
	ImageLink          string `yaml:"image_link"`
	FacebookLink       string `yaml:"facebook_link"`
	Website            string `yaml:"website"`
	SeekingTalent      bool   `yaml:"seeking_talent"`
	SeekingDescription string `yaml:"seeking_description"`
}

type Artist struct {
	Name               string `yaml:"name"`
	City               string `yaml:"city"`
	State              string `yaml:"state"`
	Phone              string `yaml:"phone"`
	Genres             Genres `yaml:"genres"`
	ImageLink          string `yaml:"image_link"`
	FacebookLink       string `yaml:"facebook_link"`
	Website            string `yaml:"website"`
	SeekingVenue       bool   `yaml:"seeking_venue"`
	SeekingDescription string `yaml:"seeking_description"`
}

// Show refers to its artist and venue by name, since ids are only known
// once the fixtures are in
type Show struct {
	Artist    string    `yaml:"artist"`
	Venue     string    `yaml:"venue"`
	StartTime time.Time `yaml:"start_time"`
}

type Fixtures struct {
	Venues  []*Venue  `yaml:"venues"`
	Artists []*Artist `yaml:"artists"`
	Shows   []*Show   `yaml:"shows"`
}

func Parse(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fixtures Fixtures
	if err := dec.Decode(&fixtures); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fixtures, nil
}

func ParseFile(path string) (*Fixtures, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Demo is a small set of sample venues, artists, and shows
func Demo() (*Fixtures, error) {
	return Parse(bytes.NewReader(demo))
}

// Apply inserts every venue and artist, then every show. a failing entry
// doesn't stop the others, and all failures are returned together
func Apply(store *directory.Store, fixtures *Fixtures) error {
	var errs multierr.Err
	venueIDs := map[string]int{}
	for _, v := range fixtures.Venues {
		venue := &db.Venue{
			Name:               v.Name,
			City:               v.City,
			State:              v.State,
			Address:            v.Address,
			Phone:              v.Phone,
			ImageLink:          v.ImageLink,
			FacebookLink:       v.FacebookLink,
			Website:            v.Website,
			SeekingTalent:      v.SeekingTalent,
			SeekingDescription: v.SeekingDescription,
		}
		if err := store.CreateVenue(venue, v.Genres); err != nil {
			errs.Addf("venue %q: %w", v.Name, err)
			continue
		}
		venueIDs[v.Name] = venue.ID
	}
	artistIDs := map[string]int{}
	for _, a := range fixtures.Artists {
		artist := &db.Artist{
			Name:               a.Name,
			City:               a.City,
			State:              a.State,
			Phone:              a.Phone,
			ImageLink:          a.ImageLink,
			FacebookLink:       a.FacebookLink,
			Website:            a.Website,
			SeekingVenue:       a.SeekingVenue,
			SeekingDescription: a.SeekingDescription,
		}
		if err := store.CreateArtist(artist, a.Genres); err != nil {
			errs.Addf("artist %q: %w", a.Name, err)
			continue
		}
		artistIDs[a.Name] = artist.ID
	}
	var numShows int
	for _, s := range fixtures.Shows {
		artistID, ok := artistIDs[s.Artist]
		if !ok {
			errs.Addf("show at %q: unknown artist %q", s.Venue, s.Artist)
			continue
		}
		venueID, ok := venueIDs[s.Venue]
		if !ok {
			errs.Addf("show by %q: unknown venue %q", s.Artist, s.Venue)
			continue
		}
		show := &db.Show{ArtistID: artistID, VenueID: venueID, StartTime: s.StartTime}
		if err := store.CreateShow(show); err != nil {
			errs.Addf("show by %q at %q: %w", s.Artist, s.Venue, err)
			continue
		}
		numShows++
	}
	log.Printf("seeded %d venues, %d artists, %d shows", len(venueIDs), len(artistIDs), numShows)
	return errs.ErrorOrNil()
}

// ApplyIfEmpty applies the fixtures only when there are no venues or artists
// yet. it reports whether anything was applied
func ApplyIfEmpty(store *directory.Store, fixtures *Fixtures) (bool, error) {
	counts, err := store.Counts()
	if err != nil {
		return false, fmt.Errorf("count existing: %w", err)
	}
	if counts.Venues > 0 || counts.Artists > 0 {
		return false, nil
	}
	return true, Apply(store, fixtures)
}
