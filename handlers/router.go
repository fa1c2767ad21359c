package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/zerogal/zerogalbackend/config"
	"github.com/zerogal/zerogalbackend/storage"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRouter assembles the full HTTP surface: album and data CRUD, uploads,
// file serving and the metrics endpoint.
func NewRouter(cfg config.Config, engine *storage.Engine) http.Handler {
	auth := TokenAuth{Cfg: cfg}
	albums := NewAlbumHandler(engine, auth)
	data := NewDataHandler(engine, auth, cfg)
	uploads := NewUploadHandler(engine, auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", TokenHeader},
	}).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"version": Version})
		})

		r.Get("/albums", albums.ListAlbums)
		r.Get("/album/{id}/data", albums.ListAlbumData)
		r.Get("/data", data.ListUnassignedData)
		r.Get("/data/{id}", data.ServeData)
		r.Get("/preview/{id}", data.ServePreview)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireWriteToken)
			r.Post("/album", albums.CreateAlbum)
			r.Post("/upload", uploads.Upload)
			r.Post("/upload/{albumId}", uploads.Upload)
			r.Delete("/album/{id}", albums.DeleteAlbum)
			r.Delete("/data/{id}", data.DeleteData)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
