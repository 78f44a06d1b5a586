package ctrlweb

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/directory"
	"go.senan.xyz/fyyur/form"
)

func (c *Controller) ServeArtists(r *http.Request) *Response {
	artists, err := c.store.Artists()
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "artists.tmpl",
		data:     &templateData{Artists: artists},
	}
}

func (c *Controller) ServeSearchArtists(r *http.Request) *Response {
	results, err := c.store.SearchArtists(r.PostFormValue("search_term"))
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "search_artists.tmpl",
		data:     &templateData{Results: results},
	}
}

func (c *Controller) ServeArtist(r *http.Request) *Response {
	id, err := idFrom(r)
	if err != nil {
		return errorPage(r, err)
	}
	artist, err := c.store.Artist(id)
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "show_artist.tmpl",
		data:     &templateData{Artist: artist},
	}
}

func (c *Controller) ServeCreateArtist(r *http.Request) *Response {
	return &Response{
		template: "new_artist.tmpl",
		data:     &templateData{ArtistForm: &form.Artist{}},
	}
}

func (c *Controller) ServeCreateArtistDo(r *http.Request) *Response {
	var f form.Artist
	if err := parseForm(r, &f); err != nil {
		return &Response{code: http.StatusBadRequest, err: err.Error()}
	}
	data := &templateData{ArtistForm: &f}
	if err := form.Validate(&f); err != nil {
		return invalidForm("new_artist.tmpl", data, err)
	}
	var artist db.Artist
	f.ApplyTo(&artist)
	if err := c.store.CreateArtist(&artist, f.Genres); err != nil {
		log.Printf("error creating artist: %v", err)
		return &Response{
			template: "new_artist.tmpl",
			data:     data,
			flashW:   []string{fmt.Sprintf("An error occurred. Artist %s could not be listed.", f.Name)},
			code:     http.StatusInternalServerError,
		}
	}
	return &Response{
		redirect: fmt.Sprintf("/artists/%d", artist.ID),
		flashN:   []string{fmt.Sprintf("Artist %s was successfully listed!", artist.Name)},
	}
}

func (c *Controller) ServeEditArtist(r *http.Request) *Response {
	id, err := idFrom(r)
	if err != nil {
		return errorPage(r, err)
	}
	artist, genres, err := c.store.ArtistForEdit(id)
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "edit_artist.tmpl",
		data:     &templateData{ArtistForm: form.FromArtist(artist, genres), EditID: id},
	}
}

func (c *Controller) ServeEditArtistDo(r *http.Request) *Response {
	id, err := idFrom(r)
	if err != nil {
		return errorPage(r, err)
	}
	var f form.Artist
	if err := parseForm(r, &f); err != nil {
		return &Response{code: http.StatusBadRequest, err: err.Error()}
	}
	data := &templateData{ArtistForm: &f, EditID: id}
	if err := form.Validate(&f); err != nil {
		return invalidForm("edit_artist.tmpl", data, err)
	}
	artist, err := c.store.UpdateArtist(id, f.ApplyTo, f.Genres)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return errorPage(r, err)
	case err != nil:
		log.Printf("error updating artist %d: %v", id, err)
		return &Response{
			template: "edit_artist.tmpl",
			data:     data,
			flashW:   []string{fmt.Sprintf("An error occurred. Artist %s could not be edited.", f.Name)},
			code:     http.StatusInternalServerError,
		}
	}
	return &Response{
		redirect: fmt.Sprintf("/artists/%d", artist.ID),
		flashN:   []string{fmt.Sprintf("Artist %s was successfully edited!", artist.Name)},
	}
}
