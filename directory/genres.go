package directory

import (
	"fmt"
	"strings"

	"go.senan.xyz/fyyur/db"
)

// ParseGenres reads the legacy delimited encoding, eg. "{Jazz,Reggae}" or
// "Jazz, Reggae"
func ParseGenres(in string) []string {
	in = strings.TrimSpace(in)
	in = strings.TrimPrefix(in, "{")
	in = strings.TrimSuffix(in, "}")
	return NormaliseGenres(strings.Split(in, ","))
}

// NormaliseGenres trims names, and drops empty and repeated ones, keeping
// the order of first appearance
func NormaliseGenres(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	ret := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ret = append(ret, name)
	}
	return ret
}

func genreIDs(tx *db.DB, names []string) ([]int, error) {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		genre := &db.Genre{}
		if err := tx.FirstOrCreate(genre, db.Genre{Name: name}).Error; err != nil {
			return nil, fmt.Errorf("find or create genre %q: %w", name, err)
		}
		ids = append(ids, genre.ID)
	}
	return ids, nil
}

func setVenueGenres(tx *db.DB, venueID int, names []string) error {
	if err := tx.Where("venue_id=?", venueID).Delete(db.VenueGenre{}).Error; err != nil {
		return fmt.Errorf("delete old venue genre records: %w", err)
	}
	ids, err := genreIDs(tx, NormaliseGenres(names))
	if err != nil {
		return err
	}
	for i, id := range ids {
		if err := tx.Create(&db.VenueGenre{VenueID: venueID, GenreID: id, Position: i}).Error; err != nil {
			return fmt.Errorf("insert venue genre: %w", err)
		}
	}
	return nil
}

func setArtistGenres(tx *db.DB, artistID int, names []string) error {
	if err := tx.Where("artist_id=?", artistID).Delete(db.ArtistGenre{}).Error; err != nil {
		return fmt.Errorf("delete old artist genre records: %w", err)
	}
	ids, err := genreIDs(tx, NormaliseGenres(names))
	if err != nil {
		return err
	}
	for i, id := range ids {
		if err := tx.Create(&db.ArtistGenre{ArtistID: artistID, GenreID: id, Position: i}).Error; err != nil {
			return fmt.Errorf("insert artist genre: %w", err)
		}
	}
	return nil
}

func venueGenres(tx *db.DB, venueID int) ([]string, error) {
	names := []string{}
	err := tx.
		Table("genres").
		Joins("JOIN venue_genres ON venue_genres.genre_id=genres.id").
		Where("venue_genres.venue_id=?", venueID).
		Order("venue_genres.position").
		Pluck("genres.name", &names).
		Error
	return names, err
}

func artistGenres(tx *db.DB, artistID int) ([]string, error) {
	names := []string{}
	err := tx.
		Table("genres").
		Joins("JOIN artist_genres ON artist_genres.genre_id=genres.id").
		Where("artist_genres.artist_id=?", artistID).
		Order("artist_genres.position").
		Pluck("genres.name", &names).
		Error
	return names, err
}
