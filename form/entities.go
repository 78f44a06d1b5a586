package form

import (
	"fmt"
	"strconv"
	"time"

	"go.senan.xyz/fyyur/db"
)

type Venue struct {
	Name               string   `mapstructure:"name" valid:"required"`
	City               string   `mapstructure:"city" valid:"required"`
	State              string   `mapstructure:"state" valid:"required,state"`
	Address            string   `mapstructure:"address" valid:"required"`
	Phone              string   `mapstructure:"phone" valid:"required,phone"`
	ImageLink          string   `mapstructure:"image_link" valid:"url"`
	Genres             []string `mapstructure:"genres" valid:"required,genres"`
	FacebookLink       string   `mapstructure:"facebook_link" valid:"url"`
	WebsiteLink        string   `mapstructure:"website_link" valid:"url"`
	SeekingTalent      bool     `mapstructure:"seeking_talent"`
	SeekingDescription string   `mapstructure:"seeking_description"`
}

func FromVenue(venue *db.Venue, genres []string) *Venue {
	return &Venue{
		Name:               venue.Name,
		City:               venue.City,
		State:              venue.State,
		Address:            venue.Address,
		Phone:              venue.Phone,
		ImageLink:          venue.ImageLink,
		Genres:             genres,
		FacebookLink:       venue.FacebookLink,
		WebsiteLink:        venue.Website,
		SeekingTalent:      venue.SeekingTalent,
		SeekingDescription: venue.SeekingDescription,
	}
}

// ApplyTo copies the submitted fields onto a venue row, leaving its id and
// timestamps alone
func (f *Venue) ApplyTo(venue *db.Venue) {
	venue.Name = f.Name
	venue.City = f.City
	venue.State = f.State
	venue.Address = f.Address
	venue.Phone = f.Phone
	venue.ImageLink = f.ImageLink
	venue.FacebookLink = f.FacebookLink
	venue.Website = f.WebsiteLink
	venue.SeekingTalent = f.SeekingTalent
	venue.SeekingDescription = f.SeekingDescription
}

func (f *Venue) Selected(genre string) bool { return contains(f.Genres, genre) }

type Artist struct {
	Name               string   `mapstructure:"name" valid:"required"`
	City               string   `mapstructure:"city" valid:"required"`
	State              string   `mapstructure:"state" valid:"required,state"`
	Phone              string   `mapstructure:"phone" valid:"required,phone"`
	ImageLink          string   `mapstructure:"image_link" valid:"url"`
	Genres             []string `mapstructure:"genres" valid:"required,genres"`
	FacebookLink       string   `mapstructure:"facebook_link" valid:"url"`
	WebsiteLink        string   `mapstructure:"website_link" valid:"url"`
	SeekingVenue       bool     `mapstructure:"seeking_venue"`
	SeekingDescription string   `mapstructure:"seeking_description"`
}

func FromArtist(artist *db.Artist, genres []string) *Artist {
	return &Artist{
		Name:               artist.Name,
		City:               artist.City,
		State:              artist.State,
		Phone:              artist.Phone,
		ImageLink:          artist.ImageLink,
		Genres:             genres,
		FacebookLink:       artist.FacebookLink,
		WebsiteLink:        artist.Website,
		SeekingVenue:       artist.SeekingVenue,
		SeekingDescription: artist.SeekingDescription,
	}
}

func (f *Artist) ApplyTo(artist *db.Artist) {
	artist.Name = f.Name
	artist.City = f.City
	artist.State = f.State
	artist.Phone = f.Phone
	artist.ImageLink = f.ImageLink
	artist.FacebookLink = f.FacebookLink
	artist.Website = f.WebsiteLink
	artist.SeekingVenue = f.SeekingVenue
	artist.SeekingDescription = f.SeekingDescription
}

func (f *Artist) Selected(genre string) bool { return contains(f.Genres, genre) }

// Show keeps its ids and start time as text, so that a rejected submission
// can be shown back as typed
type Show struct {
	ArtistID  string `mapstructure:"artist_id" valid:"required,id"`
	VenueID   string `mapstructure:"venue_id" valid:"required,id"`
	StartTime string `mapstructure:"start_time" valid:"required,datetime"`
}

// NewShow is the blank show form, with the start time prefilled
func NewShow(now time.Time) *Show {
	return &Show{StartTime: now.UTC().Format(DateTimeLayouts[0])}
}

// ToModel converts a validated form to a show row
func (f *Show) ToModel() (*db.Show, error) {
	artistID, err := strconv.Atoi(f.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("parse artist id: %w", err)
	}
	venueID, err := strconv.Atoi(f.VenueID)
	if err != nil {
		return nil, fmt.Errorf("parse venue id: %w", err)
	}
	start, err := parseDateTime(f.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}
	return &db.Show{
		ArtistID:  artistID,
		VenueID:   venueID,
		StartTime: start,
	}, nil
}
