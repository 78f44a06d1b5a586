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

func (c *Controller) ServeVenues(r *http.Request) *Response {
	areas, err := c.store.Areas()
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "venues.tmpl",
		data:     &templateData{Areas: areas},
	}
}

func (c *Controller) ServeSearchVenues(r *http.Request) *Response {
	results, err := c.store.SearchVenues(r.PostFormValue("search_term"))
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "search_venues.tmpl",
		data:     &templateData{Results: results},
	}
}

func (c *Controller) ServeVenue(r *http.Request) *Response {
	id, err := idFrom(r)
	if err != nil {
		return errorPage(r, err)
	}
	venue, err := c.store.Venue(id)
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "show_venue.tmpl",
		data:     &templateData{Venue: venue},
	}
}

func (c *Controller) ServeCreateVenue(r *http.Request) *Response {
	return &Response{
		template: "new_venue.tmpl",
		data:     &templateData{VenueForm: &form.Venue{}},
	}
}

func (c *Controller) ServeCreateVenueDo(r *http.Request) *Response {
	var f form.Venue
	if err := parseForm(r, &f); err != nil {
		return &Response{code: http.StatusBadRequest, err: err.Error()}
	}
	data := &templateData{VenueForm: &f}
	if err := form.Validate(&f); err != nil {
		return invalidForm("new_venue.tmpl", data, err)
	}
	var venue db.Venue
	f.ApplyTo(&venue)
	if err := c.store.CreateVenue(&venue, f.Genres); err != nil {
		log.Printf("error creating venue: %v", err)
		return &Response{
			template: "new_venue.tmpl",
			data:     data,
			flashW:   []string{fmt.Sprintf("An error occurred. Venue %s could not be listed.", f.Name)},
			code:     http.StatusInternalServerError,
		}
	}
	return &Response{
		redirect: fmt.Sprintf("/venues/%d", venue.ID),
		flashN:   []string{fmt.Sprintf("Venue %s was successfully listed!", venue.Name)},
	}
}

func (c *Controller) ServeEditVenue(r *http.Request) *Response {
	id, err := idFrom(r)
	if err != nil {
		return errorPage(r, err)
	}
	venue, genres, err := c.store.VenueForEdit(id)
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "edit_venue.tmpl",
		data:     &templateData{VenueForm: form.FromVenue(venue, genres), EditID: id},
	}
}

func (c *Controller) ServeEditVenueDo(r *http.Request) *Response {
	id, err := idFrom(r)
	if err != nil {
		return errorPage(r, err)
	}
	var f form.Venue
	if err := parseForm(r, &f); err != nil {
		return &Response{code: http.StatusBadRequest, err: err.Error()}
	}
	data := &templateData{VenueForm: &f, EditID: id}
	if err := form.Validate(&f); err != nil {
		return invalidForm("edit_venue.tmpl", data, err)
	}
	venue, err := c.store.UpdateVenue(id, f.ApplyTo, f.Genres)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return errorPage(r, err)
	case err != nil:
		log.Printf("error updating venue %d: %v", id, err)
		return &Response{
			template: "edit_venue.tmpl",
			data:     data,
			flashW:   []string{fmt.Sprintf("An error occurred. Venue %s could not be edited.", f.Name)},
			code:     http.StatusInternalServerError,
		}
	}
	return &Response{
		redirect: fmt.Sprintf("/venues/%d", venue.ID),
		flashN:   []string{fmt.Sprintf("Venue %s was successfully edited!", venue.Name)},
	}
}

func (c *Controller) ServeDeleteVenueDo(r *http.Request) *Response {
	id, err := idFrom(r)
	if err != nil {
		return errorPage(r, err)
	}
	venue, err := c.store.DeleteVenue(id)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return errorPage(r, err)
	case err != nil:
		log.Printf("error deleting venue %d: %v", id, err)
		return &Response{
			redirect: fmt.Sprintf("/venues/%d", id),
			flashW:   []string{"An error occurred. Venue could not be deleted."},
		}
	}
	return &Response{
		redirect: "/venues",
		flashN:   []string{fmt.Sprintf("Venue %s was successfully deleted.", venue.Name)},
	}
}
