package ctrlweb

import (
	"net/http"

	"go.senan.xyz/fyyur/handlerutil"
	"go.senan.xyz/fyyur/server/ctrlweb/webui"
)

func AddRoutes(c *Controller, mux *http.ServeMux) {
	mux.Handle("GET /{$}", c.H(c.ServeHome))
	mux.Handle("GET /static/", http.FileServerFS(webui.StaticFS))

	mux.Handle("GET /venues", c.H(c.ServeVenues))
	mux.Handle("POST /venues", c.H(c.ServeCreateVenueDo))
	mux.Handle("POST /venues/search", c.H(c.ServeSearchVenues))
	mux.Handle("GET /venues/create", c.H(c.ServeCreateVenue))
	mux.Handle("POST /venues/create", c.H(c.ServeCreateVenueDo))
	mux.Handle("GET /venues/{id}", c.H(c.ServeVenue))
	mux.Handle("DELETE /venues/{id}", c.H(c.ServeDeleteVenueDo))
	mux.Handle("POST /venues/{id}/delete", c.H(c.ServeDeleteVenueDo))
	mux.Handle("GET /venues/{id}/edit", c.H(c.ServeEditVenue))
	mux.Handle("POST /venues/{id}/edit", c.H(c.ServeEditVenueDo))

	mux.Handle("GET /artists", c.H(c.ServeArtists))
	mux.Handle("POST /artists", c.H(c.ServeCreateArtistDo))
	mux.Handle("POST /artists/search", c.H(c.ServeSearchArtists))
	mux.Handle("GET /artists/create", c.H(c.ServeCreateArtist))
	mux.Handle("POST /artists/create", c.H(c.ServeCreateArtistDo))
	mux.Handle("GET /artists/{id}", c.H(c.ServeArtist))
	mux.Handle("GET /artists/{id}/edit", c.H(c.ServeEditArtist))
	mux.Handle("POST /artists/{id}/edit", c.H(c.ServeEditArtistDo))

	mux.Handle("GET /shows", c.H(c.ServeShows))
	mux.Handle("GET /shows/create", c.H(c.ServeCreateShow))
	mux.Handle("POST /shows/create", c.H(c.ServeCreateShowDo))

	mux.Handle("/", c.H(c.ServeNotFound))
}

// Handler wraps the routes with the common middleware
func (c *Controller) Handler(mux *http.ServeMux, logHTTP bool) http.Handler {
	middlewares := []handlerutil.Middleware{handlerutil.RequestID}
	if logHTTP {
		middlewares = append(middlewares, handlerutil.Log)
	}
	middlewares = append(middlewares,
		handlerutil.Recover(c.H(c.ServeServerError)),
		c.WithSession,
		handlerutil.MethodOverride,
	)
	return handlerutil.Chain(middlewares...)(mux)
}
