package directory

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"

	"go.senan.xyz/fyyur/db"
)

func (s *Store) CreateVenue(venue *db.Venue, genres []string) error {
	venue.NameUDec = decoded(venue.Name)
	err := s.db.Transaction(func(tx *db.DB) error {
		if err := tx.Create(venue).Error; err != nil {
			return err
		}
		return setVenueGenres(tx, venue.ID, genres)
	})
	return persistence("create venue", err)
}

// UpdateVenue fetches a single venue, hands it to edit, and saves the result
// along with its new genres
func (s *Store) UpdateVenue(id int, edit func(*db.Venue), genres []string) (*db.Venue, error) {
	var venue db.Venue
	err := s.db.Transaction(func(tx *db.DB) error {
		if err := tx.First(&venue, id).Error; err != nil {
			return notFound(err)
		}
		edit(&venue)
		venue.ID = id
		venue.NameUDec = decoded(venue.Name)
		if err := tx.Save(&venue).Error; err != nil {
			return err
		}
		return setVenueGenres(tx, venue.ID, genres)
	})
	if err != nil {
		return nil, persistence("update venue", err)
	}
	return &venue, nil
}

// DeleteVenue removes the venue along with its shows and genre links
func (s *Store) DeleteVenue(id int) (*db.Venue, error) {
	var venue db.Venue
	err := s.db.Transaction(func(tx *db.DB) error {
		if err := tx.First(&venue, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("venue_id=?", id).Delete(db.Show{}).Error; err != nil {
			return fmt.Errorf("delete shows: %w", err)
		}
		if err := tx.Where("venue_id=?", id).Delete(db.VenueGenre{}).Error; err != nil {
			return fmt.Errorf("delete genre links: %w", err)
		}
		return tx.Delete(&venue).Error
	})
	if err != nil {
		return nil, persistence("delete venue", err)
	}
	return &venue, nil
}

func (s *Store) CreateArtist(artist *db.Artist, genres []string) error {
	artist.NameUDec = decoded(artist.Name)
	err := s.db.Transaction(func(tx *db.DB) error {
		if err := tx.Create(artist).Error; err != nil {
			return err
		}
		return setArtistGenres(tx, artist.ID, genres)
	})
	return persistence("create artist", err)
}

func (s *Store) UpdateArtist(id int, edit func(*db.Artist), genres []string) (*db.Artist, error) {
	var artist db.Artist
	err := s.db.Transaction(func(tx *db.DB) error {
		if err := tx.First(&artist, id).Error; err != nil {
			return notFound(err)
		}
		edit(&artist)
		artist.ID = id
		artist.NameUDec = decoded(artist.Name)
		if err := tx.Save(&artist).Error; err != nil {
			return err
		}
		return setArtistGenres(tx, artist.ID, genres)
	})
	if err != nil {
		return nil, persistence("update artist", err)
	}
	return &artist, nil
}

// CreateShow inserts a show after checking that both of its references exist
func (s *Store) CreateShow(show *db.Show) error {
	show.StartTime = show.StartTime.UTC().Truncate(time.Second)
	show.Artist = nil
	show.Venue = nil
	err := s.db.Transaction(func(tx *db.DB) error {
		if err := checkReference(tx, &db.Artist{}, "artist_id", show.ArtistID); err != nil {
			return err
		}
		if err := checkReference(tx, &db.Venue{}, "venue_id", show.VenueID); err != nil {
			return err
		}
		return tx.Create(show).Error
	})
	return persistence("create show", err)
}

func checkReference(tx *db.DB, model interface{}, field string, id int) error {
	err := tx.Select("id").First(model, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &ReferenceError{Field: field, ID: id}
	case err != nil:
		return fmt.Errorf("find %s: %w", field, err)
	}
	return nil
}
