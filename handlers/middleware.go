package handlers

import (
	"net/http"

	"github.com/zerogal/zerogalbackend/config"
)

// TokenAuth gates write/delete endpoints behind the configured tokens. The
// master token passes everywhere and additionally marks the request as
// admin; read endpoints do their own per-album token checks instead.
type TokenAuth struct {
	Cfg config.Config
}

// IsAdmin reports whether the request presented the master token.
func (a TokenAuth) IsAdmin(r *http.Request) bool {
	return a.Cfg.APIMasterToken != "" && requestToken(r) == a.Cfg.APIMasterToken
}

// RequireWriteToken rejects requests lacking the write or master token.
// An empty configured write token leaves writes open.
func (a TokenAuth) RequireWriteToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Cfg.APIWriteToken == "" || a.IsAdmin(r) || requestToken(r) == a.Cfg.APIWriteToken {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "valid write token required")
	})
}

// AlbumAccessAllowed checks a caller-provided token against the token
// guarding an album. Unprotected albums always pass, as does the admin.
func (a TokenAuth) AlbumAccessAllowed(r *http.Request, albumToken string) bool {
	if albumToken == "" || a.IsAdmin(r) {
		return true
	}
	return requestToken(r) == albumToken
}
