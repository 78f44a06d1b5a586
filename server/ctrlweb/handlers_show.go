package ctrlweb

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"go.senan.xyz/fyyur/directory"
	"go.senan.xyz/fyyur/form"
)

func (c *Controller) ServeShows(r *http.Request) *Response {
	shows, err := c.store.Shows()
	if err != nil {
		return errorPage(r, err)
	}
	return &Response{
		template: "shows.tmpl",
		data:     &templateData{Shows: shows},
	}
}

func (c *Controller) ServeCreateShow(r *http.Request) *Response {
	return &Response{
		template: "new_show.tmpl",
		data:     &templateData{ShowForm: form.NewShow(c.store.Now())},
	}
}

func (c *Controller) ServeCreateShowDo(r *http.Request) *Response {
	var f form.Show
	if err := parseForm(r, &f); err != nil {
		return &Response{code: http.StatusBadRequest, err: err.Error()}
	}
	data := &templateData{ShowForm: &f}
	if err := form.Validate(&f); err != nil {
		return invalidForm("new_show.tmpl", data, err)
	}
	show, err := f.ToModel()
	if err != nil {
		return &Response{code: http.StatusBadRequest, err: err.Error()}
	}
	err = c.store.CreateShow(show)
	var refErr *directory.ReferenceError
	switch {
	case errors.As(err, &refErr):
		return invalidForm("new_show.tmpl", data, form.Errors{
			{Field: refErr.Field, Message: fmt.Sprintf("Nothing is listed with id %d.", refErr.ID)},
		})
	case err != nil:
		log.Printf("error creating show: %v", err)
		return &Response{
			template: "new_show.tmpl",
			data:     data,
			flashW:   []string{"An error occurred. Show could not be listed."},
			code:     http.StatusInternalServerError,
		}
	}
	return &Response{
		redirect: "/shows",
		flashN:   []string{"Show was successfully listed!"},
	}
}
