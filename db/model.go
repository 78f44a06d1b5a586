// Package db provides database helpers and models
//
//nolint:lll // struct tags get very long and can't be split
package db

import (
	"time"
)

type Venue struct {
	ID                 int `gorm:"primary_key"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Name               string `gorm:"not null; index" sql:"default: null"`
	NameUDec           string `sql:"default: null"`
	City               string `gorm:"not null; index:idx_venue_area" sql:"default: null"`
	State              string `gorm:"not null; index:idx_venue_area" sql:"default: null"`
	Address            string `gorm:"not null" sql:"default: null"`
	Phone              string `sql:"default: null"`
	ImageLink          string `sql:"default: null"`
	FacebookLink       string `sql:"default: null"`
	Website            string `sql:"default: null"`
	SeekingTalent      bool
	SeekingDescription string `sql:"default: null"`
	Shows              []*Show
}

// IndexName is the name used for searching and sorting
func (v *Venue) IndexName() string {
	if len(v.NameUDec) > 0 {
		return v.NameUDec
	}
	return v.Name
}

type Artist struct {
	ID                 int `gorm:"primary_key"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Name               string `gorm:"not null; index" sql:"default: null"`
	NameUDec           string `sql:"default: null"`
	City               string `gorm:"not null" sql:"default: null"`
	State              string `gorm:"not null" sql:"default: null"`
	Phone              string `sql:"default: null"`
	ImageLink          string `sql:"default: null"`
	FacebookLink       string `sql:"default: null"`
	Website            string `sql:"default: null"`
	SeekingVenue       bool
	SeekingDescription string `sql:"default: null"`
	Shows              []*Show
}

func (a *Artist) IndexName() string {
	if len(a.NameUDec) > 0 {
		return a.NameUDec
	}
	return a.Name
}

// Show joins one artist and one venue at a start time. it's owned by neither
type Show struct {
	ID        int `gorm:"primary_key"`
	CreatedAt time.Time
	StartTime time.Time `gorm:"not null; index" sql:"default: null"`
	Artist    *Artist
	ArtistID  int `gorm:"not null; index" sql:"default: null; type:int REFERENCES artists(id) ON DELETE CASCADE"`
	Venue     *Venue
	VenueID   int `gorm:"not null; index" sql:"default: null; type:int REFERENCES venues(id) ON DELETE CASCADE"`
}

// IsUpcoming reports whether the show starts strictly after now. a show
// starting exactly at now is already past
func (s *Show) IsUpcoming(now time.Time) bool {
	return s.StartTime.After(now)
}

type Genre struct {
	ID   int    `gorm:"primary_key"`
	Name string `gorm:"not null; unique_index" sql:"default: null"`
}

type VenueGenre struct {
	Venue    *Venue
	VenueID  int `gorm:"not null; unique_index:idx_venue_id_genre_id" sql:"default: null; type:int REFERENCES venues(id) ON DELETE CASCADE"`
	Genre    *Genre
	GenreID  int `gorm:"not null; unique_index:idx_venue_id_genre_id" sql:"default: null; type:int REFERENCES genres(id) ON DELETE CASCADE"`
	Position int
}

type ArtistGenre struct {
	Artist   *Artist
	ArtistID int `gorm:"not null; unique_index:idx_artist_id_genre_id" sql:"default: null; type:int REFERENCES artists(id) ON DELETE CASCADE"`
	Genre    *Genre
	GenreID  int `gorm:"not null; unique_index:idx_artist_id_genre_id" sql:"default: null; type:int REFERENCES genres(id) ON DELETE CASCADE"`
	Position int
}

type SettingKey string

const (
	SessionKey = SettingKey("session_key")
)

type Setting struct {
	Key   SettingKey `gorm:"not null; primary_key; auto_increment:false" sql:"default: null"`
	Value string     `sql:"default: null"`
}
