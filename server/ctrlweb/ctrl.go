// Package ctrlweb provides the HTTP handlers for the html site
package ctrlweb

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/sentriz/gormstore"

	"go.senan.xyz/fyyur"
	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/directory"
	"go.senan.xyz/fyyur/form"
	"go.senan.xyz/fyyur/server/ctrlweb/webui"
)

type CtxKey int

const (
	CtxSession CtxKey = iota
)

const sessionName = fyyur.Name

// extendFromPaths /extends/ the given template for every file matching the
// given pattern
func extendFromPaths(b *template.Template, fsys fs.FS, pattern string) (*template.Template, error) {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	for _, p := range paths {
		tmplStr, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", p, err)
		}
		if b, err = b.Parse(string(tmplStr)); err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
	}
	return b, nil
}

// pagesFromPaths /clones/ the given template for every file matching the
// given pattern, extends it, and inserts it into a new map keyed by file name
func pagesFromPaths(b *template.Template, fsys fs.FS, pattern string) (map[string]*template.Template, error) {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	ret := map[string]*template.Template{}
	for _, p := range paths {
		clone, err := b.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base: %w", err)
		}
		tmplStr, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", p, err)
		}
		if ret[filepath.Base(p)], err = clone.Parse(string(tmplStr)); err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
	}
	return ret, nil
}

const (
	patternPartials = "partials/*.tmpl"
	patternLayouts  = "layouts/*.tmpl"
	patternPages    = "pages/*.tmpl"
)

// formats for the "datetime" and "datetimeFull" filters
const (
	layoutMedium = "Mon 01, 02, 2006 3:04PM"
	layoutFull   = "Monday January, 2, 2006 at 3:04PM"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"noCache": func(in string) string {
			parsed, _ := url.Parse(in)
			params := parsed.Query()
			params.Set("v", fyyur.Version)
			parsed.RawQuery = params.Encode()
			return parsed.String()
		},
		"datetime":     func(in time.Time) string { return in.Format(layoutMedium) },
		"datetimeFull": func(in time.Time) string { return in.Format(layoutFull) },
		"isoTime":      func(in time.Time) string { return in.Format(time.RFC3339) },
		"dateHuman":    humanize.Time,
		"plural":       english.Plural,
		"states":       func() []string { return form.States },
		"genres":       func() []string { return form.Genres },
	}
}

type Controller struct {
	store      *directory.Store
	sessDB     *gormstore.Store
	templates  map[string]*template.Template
	pathPrefix string
}

func New(store *directory.Store, sessDB *gormstore.Store, pathPrefix string) (*Controller, error) {
	c := &Controller{
		store:      store,
		sessDB:     sessDB,
		pathPrefix: pathPrefix,
	}
	tmplBase := template.
		New("layout").
		Funcs(sprig.FuncMap()).
		Funcs(funcMap()).       // static
		Funcs(template.FuncMap{ // from controller
			"path": c.Path,
		})
	var err error
	if tmplBase, err = extendFromPaths(tmplBase, webui.TemplatesFS, patternPartials); err != nil {
		return nil, fmt.Errorf("extend partials: %w", err)
	}
	if tmplBase, err = extendFromPaths(tmplBase, webui.TemplatesFS, patternLayouts); err != nil {
		return nil, fmt.Errorf("extend layouts: %w", err)
	}
	if c.templates, err = pagesFromPaths(tmplBase, webui.TemplatesFS, patternPages); err != nil {
		return nil, fmt.Errorf("build pages: %w", err)
	}
	return c, nil
}

// SessionKey returns the cookie key from the settings table, creating one on
// first run
func SessionKey(dbc *db.DB) ([]byte, error) {
	sessKey, err := dbc.GetSetting(db.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("get session key: %w", err)
	}
	if sessKey == "" {
		sessKey = string(securecookie.GenerateRandomKey(32))
		if err := dbc.SetSetting(db.SessionKey, sessKey); err != nil {
			return nil, fmt.Errorf("set session key: %w", err)
		}
	}
	return []byte(sessKey), nil
}

func NewSessionStore(dbc *db.DB, key []byte) *gormstore.Store {
	sessDB := gormstore.New(dbc.DB, key)
	sessDB.SessionOpts.HttpOnly = true
	sessDB.SessionOpts.SameSite = http.SameSiteLaxMode
	return sessDB
}

// Path returns a URL path with the proxy prefix included
func (c *Controller) Path(rel string) string {
	return path.Join("/", c.pathPrefix, rel)
}

type templateData struct {
	// common
	Flashes []interface{}
	Version string
	Message string
	// home
	Counts *directory.Counts
	// listings
	Areas   []*directory.Area
	Artists []*directory.Summary
	Shows   []*directory.ShowSummary
	Results *directory.SearchResults
	// detail
	Venue  *directory.VenueDetail
	Artist *directory.ArtistDetail
	// forms
	VenueForm  *form.Venue
	ArtistForm *form.Artist
	ShowForm   *form.Show
	FormErrors form.Errors
	EditID     int
}

type Response struct {
	// code is 200
	template string
	data     *templateData
	// code is 303
	redirect string
	flashN   []string // normal
	flashW   []string // warning
	// code is >= 400
	code int
	err  string
}

type handlerWeb func(r *http.Request) *Response

func (c *Controller) H(h handlerWeb) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := h(r)
		session, _ := r.Context().Value(CtxSession).(*sessions.Session)
		if session != nil && len(resp.flashN)+len(resp.flashW) > 0 {
			sessAddFlashN(session, resp.flashN)
			sessAddFlashW(session, resp.flashW)
			if err := session.Save(r, w); err != nil {
				http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
				return
			}
		}
		if resp.redirect != "" {
			http.Redirect(w, r, c.Path(resp.redirect), http.StatusSeeOther)
			return
		}
		if resp.err != "" {
			http.Error(w, resp.err, resp.code)
			return
		}
		if resp.template == "" {
			http.Error(w, "useless handler return", 500)
			return
		}
		if resp.data == nil {
			resp.data = &templateData{}
		}
		resp.data.Version = fyyur.Version
		switch {
		case session != nil:
			if resp.data.Flashes = session.Flashes(); len(resp.data.Flashes) > 0 {
				if err := session.Save(r, w); err != nil {
					http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
					return
				}
			}
		default:
			resp.data.Flashes = flashesOf(resp)
		}
		tmpl, ok := c.templates[resp.template]
		if !ok {
			http.Error(w, fmt.Sprintf("finding template %q", resp.template), 500)
			return
		}
		var buff bytes.Buffer
		if err := tmpl.Execute(&buff, resp.data); err != nil {
			http.Error(w, fmt.Sprintf("executing template: %v", err), 500)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if resp.code != 0 {
			w.WriteHeader(resp.code)
		}
		if _, err := buff.WriteTo(w); err != nil {
			log.Printf("error writing to response buffer: %v\n", err)
		}
	})
}

func (c *Controller) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := c.sessDB.Get(r, sessionName)
		if err != nil {
			// a stale or foreign cookie. carry on with the fresh session
			log.Printf("error getting session: %v", err)
		}
		withSession := context.WithValue(r.Context(), CtxSession, session)
		next.ServeHTTP(w, r.WithContext(withSession))
	})
}

// ## begin utilities
// ## begin utilities
// ## begin utilities

type FlashType string

const (
	FlashNormal  = FlashType("normal")
	FlashWarning = FlashType("warning")
)

type Flash struct {
	Message string
	Type    FlashType
}

//nolint:gochecknoinits
func init() {
	gob.Register(&Flash{})
}

func sessAddFlashN(s *sessions.Session, messages []string) {
	sessAddFlash(s, messages, FlashNormal)
}

func sessAddFlashW(s *sessions.Session, messages []string) {
	sessAddFlash(s, messages, FlashWarning)
}

func sessAddFlash(s *sessions.Session, messages []string, flashT FlashType) {
	for i, message := range messages {
		if i > 6 {
			break
		}
		s.AddFlash(&Flash{
			Message: message,
			Type:    flashT,
		})
	}
}

// flashesOf is used when there is no session to carry flashes through,
// they're shown on the page being rendered
func flashesOf(resp *Response) []interface{} {
	var ret []interface{}
	for _, m := range resp.flashN {
		ret = append(ret, &Flash{Message: m, Type: FlashNormal})
	}
	for _, m := range resp.flashW {
		ret = append(ret, &Flash{Message: m, Type: FlashWarning})
	}
	return ret
}
