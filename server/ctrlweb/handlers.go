package ctrlweb

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"go.senan.xyz/fyyur/directory"
	"go.senan.xyz/fyyur/form"
)

func (c *Controller) ServeHome(r *http.Request) *Response {
	data := &templateData{}
	counts, err := c.store.Counts()
	if err != nil {
		log.Printf("error counting for home: %v", err)
	}
	data.Counts = counts
	return &Response{template: "home.tmpl", data: data}
}

func (c *Controller) ServeNotFound(r *http.Request) *Response {
	return &Response{template: "not_found.tmpl", code: http.StatusNotFound}
}

func (c *Controller) ServeServerError(r *http.Request) *Response {
	return &Response{template: "server_error.tmpl", code: http.StatusInternalServerError}
}

// errorPage is the response for a failed read. a missing row is a 404, and
// anything else is logged and a 500
func errorPage(r *http.Request, err error) *Response {
	if errors.Is(err, directory.ErrNotFound) {
		return &Response{
			template: "not_found.tmpl",
			data:     &templateData{Message: "we couldn't find that listing"},
			code:     http.StatusNotFound,
		}
	}
	log.Printf("error serving %s %v: %v", r.Method, r.URL, err)
	return &Response{template: "server_error.tmpl", code: http.StatusInternalServerError}
}

// idFrom reads the {id} path value. a malformed id can't match any row, so
// it's reported as not found
func idFrom(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", directory.ErrNotFound, r.PathValue("id"))
	}
	return id, nil
}

// invalidForm re-renders a form with its field errors. err is returned as is
// if it's not a validation error
func invalidForm(tmpl string, data *templateData, err error) *Response {
	var errs form.Errors
	if !errors.As(err, &errs) {
		return &Response{code: http.StatusBadRequest, err: err.Error()}
	}
	data.FormErrors = errs
	return &Response{
		template: tmpl,
		data:     data,
		flashW:   []string{fmt.Sprintf("Please correct the errors below: %s", strings.Join(errs.Fields(), ", "))},
		code:     http.StatusUnprocessableEntity,
	}
}

func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	return form.Decode(r.PostForm, dst)
}
