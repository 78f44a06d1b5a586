package directory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/rainycape/unidecode"

	"go.senan.xyz/fyyur/db"
)

// Summary is the abbreviated form of a venue or artist used in listings and
// search results
type Summary struct {
	ID               int
	Name             string
	City             string
	State            string
	ImageLink        string
	NumUpcomingShows int
}

type Area struct {
	City   string
	State  string
	Venues []*Summary
}

type SearchResults struct {
	Term  string
	Count int
	Data  []*Summary
}

// ShowSummary is a show with the names and images of both sides
type ShowSummary struct {
	ID              int
	StartTime       time.Time
	VenueID         int
	VenueName       string
	VenueImageLink  string
	ArtistID        int
	ArtistName      string
	ArtistImageLink string
	Upcoming        bool
}

type VenueDetail struct {
	*db.Venue
	Genres             []string
	PastShows          []*ShowSummary
	UpcomingShows      []*ShowSummary
	PastShowsCount     int
	UpcomingShowsCount int
}

type ArtistDetail struct {
	*db.Artist
	Genres             []string
	PastShows          []*ShowSummary
	UpcomingShows      []*ShowSummary
	PastShowsCount     int
	UpcomingShowsCount int
}

type Counts struct {
	Venues        int
	Artists       int
	Shows         int
	UpcomingShows int
}

func orderShowsByStart(tx *gorm.DB) *gorm.DB {
	return tx.Order("start_time, id")
}

func countUpcoming(shows []*db.Show, now time.Time) int {
	var n int
	for _, show := range shows {
		if show.IsUpcoming(now) {
			n++
		}
	}
	return n
}

// partitionShows splits shows by start time. a show starting exactly at now
// counts as past
func partitionShows(shows []*db.Show, now time.Time) (past, upcoming []*db.Show) {
	for _, show := range shows {
		if show.IsUpcoming(now) {
			upcoming = append(upcoming, show)
			continue
		}
		past = append(past, show)
	}
	return past, upcoming
}

func newShowSummary(show *db.Show, now time.Time) *ShowSummary {
	ret := &ShowSummary{
		ID:        show.ID,
		StartTime: show.StartTime,
		VenueID:   show.VenueID,
		ArtistID:  show.ArtistID,
		Upcoming:  show.IsUpcoming(now),
	}
	if show.Venue != nil {
		ret.VenueName = show.Venue.Name
		ret.VenueImageLink = show.Venue.ImageLink
	}
	if show.Artist != nil {
		ret.ArtistName = show.Artist.Name
		ret.ArtistImageLink = show.Artist.ImageLink
	}
	return ret
}

func newShowSummaries(shows []*db.Show, now time.Time) []*ShowSummary {
	ret := make([]*ShowSummary, 0, len(shows))
	for _, show := range shows {
		ret = append(ret, newShowSummary(show, now))
	}
	return ret
}

func newVenueSummary(venue *db.Venue, now time.Time) *Summary {
	return &Summary{
		ID:               venue.ID,
		Name:             venue.Name,
		City:             venue.City,
		State:            venue.State,
		ImageLink:        venue.ImageLink,
		NumUpcomingShows: countUpcoming(venue.Shows, now),
	}
}

func newArtistSummary(artist *db.Artist, now time.Time) *Summary {
	return &Summary{
		ID:               artist.ID,
		Name:             artist.Name,
		City:             artist.City,
		State:            artist.State,
		ImageLink:        artist.ImageLink,
		NumUpcomingShows: countUpcoming(artist.Shows, now),
	}
}

// Areas groups every venue by the distinct (city, state) pairs present
func (s *Store) Areas() ([]*Area, error) {
	var venues []*db.Venue
	err := s.db.
		Preload("Shows").
		Order("state, city, id").
		Find(&venues).
		Error
	if err != nil {
		return nil, fmt.Errorf("find venues: %w", err)
	}
	sort.SliceStable(venues, func(i, j int) bool {
		a, b := venues[i], venues[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.City != b.City {
			return a.City < b.City
		}
		return indexLess(a.IndexName(), b.IndexName())
	})
	type areaKey struct{ city, state string }
	now := s.Now()
	areas := []*Area{}
	index := map[areaKey]*Area{}
	for _, venue := range venues {
		key := areaKey{venue.City, venue.State}
		area, ok := index[key]
		if !ok {
			area = &Area{City: venue.City, State: venue.State}
			index[key] = area
			areas = append(areas, area)
		}
		area.Venues = append(area.Venues, newVenueSummary(venue, now))
	}
	return areas, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likeTerm builds a case insensitive substring pattern. like metacharacters in
// the term match literally
func likeTerm(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// sqlite's LOWER only folds ascii, so the term is matched as given against the
// name and transliterated against both the name and its decoded form
const nameLikeCond = "LOWER(name) LIKE ? ESCAPE '!' OR LOWER(name) LIKE ? ESCAPE '!' OR LOWER(name_u_dec) LIKE ? ESCAPE '!'"

func nameLikeArgs(term string) []interface{} {
	like := likeTerm(term)
	likeDec := likeTerm(unidecode.Unidecode(term))
	return []interface{}{like, likeDec, likeDec}
}

// indexLess orders by index name ignoring case, so accented names sort with
// their latin equivalents
func indexLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func (s *Store) SearchVenues(term string) (*SearchResults, error) {
	var venues []*db.Venue
	err := s.db.
		Preload("Shows").
		Where(nameLikeCond, nameLikeArgs(term)...).
		Order("id").
		Find(&venues).
		Error
	if err != nil {
		return nil, fmt.Errorf("search venues: %w", err)
	}
	now := s.Now()
	results := &SearchResults{Term: term, Data: []*Summary{}}
	for _, venue := range venues {
		results.Data = append(results.Data, newVenueSummary(venue, now))
	}
	results.Count = len(results.Data)
	return results, nil
}

func (s *Store) SearchArtists(term string) (*SearchResults, error) {
	var artists []*db.Artist
	err := s.db.
		Preload("Shows").
		Where(nameLikeCond, nameLikeArgs(term)...).
		Order("id").
		Find(&artists).
		Error
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	now := s.Now()
	results := &SearchResults{Term: term, Data: []*Summary{}}
	for _, artist := range artists {
		results.Data = append(results.Data, newArtistSummary(artist, now))
	}
	results.Count = len(results.Data)
	return results, nil
}

func (s *Store) Artists() ([]*Summary, error) {
	var artists []*db.Artist
	err := s.db.
		Preload("Shows").
		Order("id").
		Find(&artists).
		Error
	if err != nil {
		return nil, fmt.Errorf("find artists: %w", err)
	}
	sort.SliceStable(artists, func(i, j int) bool {
		return indexLess(artists[i].IndexName(), artists[j].IndexName())
	})
	now := s.Now()
	ret := make([]*Summary, 0, len(artists))
	for _, artist := range artists {
		ret = append(ret, newArtistSummary(artist, now))
	}
	return ret, nil
}

func (s *Store) Venue(id int) (*VenueDetail, error) {
	var venue db.Venue
	err := s.db.
		Preload("Shows", orderShowsByStart).
		Preload("Shows.Artist").
		First(&venue, id).
		Error
	if err != nil {
		return nil, fmt.Errorf("find venue %d: %w", id, notFound(err))
	}
	genres, err := venueGenres(s.db, venue.ID)
	if err != nil {
		return nil, fmt.Errorf("find venue genres: %w", err)
	}
	now := s.Now()
	past, upcoming := partitionShows(venue.Shows, now)
	for _, show := range venue.Shows {
		show.Venue = &venue
	}
	return &VenueDetail{
		Venue:              &venue,
		Genres:             genres,
		PastShows:          newShowSummaries(past, now),
		UpcomingShows:      newShowSummaries(upcoming, now),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (s *Store) Artist(id int) (*ArtistDetail, error) {
	var artist db.Artist
	err := s.db.
		Preload("Shows", orderShowsByStart).
		Preload("Shows.Venue").
		First(&artist, id).
		Error
	if err != nil {
		return nil, fmt.Errorf("find artist %d: %w", id, notFound(err))
	}
	genres, err := artistGenres(s.db, artist.ID)
	if err != nil {
		return nil, fmt.Errorf("find artist genres: %w", err)
	}
	now := s.Now()
	past, upcoming := partitionShows(artist.Shows, now)
	for _, show := range artist.Shows {
		show.Artist = &artist
	}
	return &ArtistDetail{
		Artist:             &artist,
		Genres:             genres,
		PastShows:          newShowSummaries(past, now),
		UpcomingShows:      newShowSummaries(upcoming, now),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

// Shows lists every show with joined venue and artist names
func (s *Store) Shows() ([]*ShowSummary, error) {
	var shows []*db.Show
	err := s.db.
		Preload("Venue").
		Preload("Artist").
		Order("start_time, id").
		Find(&shows).
		Error
	if err != nil {
		return nil, fmt.Errorf("find shows: %w", err)
	}
	return newShowSummaries(shows, s.Now()), nil
}

func (s *Store) Counts() (*Counts, error) {
	var counts Counts
	if err := s.db.Model(db.Venue{}).Count(&counts.Venues).Error; err != nil {
		return nil, fmt.Errorf("count venues: %w", err)
	}
	if err := s.db.Model(db.Artist{}).Count(&counts.Artists).Error; err != nil {
		return nil, fmt.Errorf("count artists: %w", err)
	}
	if err := s.db.Model(db.Show{}).Count(&counts.Shows).Error; err != nil {
		return nil, fmt.Errorf("count shows: %w", err)
	}
	var starts []time.Time
	if err := s.db.Model(db.Show{}).Pluck("start_time", &starts).Error; err != nil {
		return nil, fmt.Errorf("find show start times: %w", err)
	}
	now := s.Now()
	for _, start := range starts {
		if start.After(now) {
			counts.UpcomingShows++
		}
	}
	return &counts, nil
}

// VenueForEdit returns the venue row and its genres, for prefilling a form
func (s *Store) VenueForEdit(id int) (*db.Venue, []string, error) {
	var venue db.Venue
	if err := s.db.First(&venue, id).Error; err != nil {
		return nil, nil, fmt.Errorf("find venue %d: %w", id, notFound(err))
	}
	genres, err := venueGenres(s.db, venue.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("find venue genres: %w", err)
	}
	return &venue, genres, nil
}

func (s *Store) ArtistForEdit(id int) (*db.Artist, []string, error) {
	var artist db.Artist
	if err := s.db.First(&artist, id).Error; err != nil {
		return nil, nil, fmt.Errorf("find artist %d: %w", id, notFound(err))
	}
	genres, err := artistGenres(s.db, artist.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("find artist genres: %w", err)
	}
	return &artist, genres, nil
}
