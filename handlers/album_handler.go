package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/zerogal/zerogalbackend/storage"
)

type AlbumHandler struct {
	Engine *storage.Engine
	Auth   TokenAuth
}

func NewAlbumHandler(engine *storage.Engine, auth TokenAuth) *AlbumHandler {
	return &AlbumHandler{Engine: engine, Auth: auth}
}

// ListAlbums returns all albums not marked for removal. Protected albums
// are listed too; their contents stay behind the album token.
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.Engine.GetAlbums()
	if err != nil {
		log.Printf("Error listing albums: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list albums")
		return
	}
	writeJSON(w, http.StatusOK, toAlbumInfos(albums))
}

type createAlbumRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Token           string `json:"token"`
	AllowRemoveData bool   `json:"allowRemoveData"`
}

// CreateAlbum creates a new album; requires the write token.
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	album, err := h.Engine.CreateAlbum(req.Name, req.Description, req.Token, req.AllowRemoveData)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, "album name must not be empty")
			return
		}
		log.Printf("Error creating album: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create album")
		return
	}
	writeJSON(w, http.StatusCreated, toAlbumInfo(*album))
}

// ListAlbumData returns the records of one album, gated by its token.
func (h *AlbumHandler) ListAlbumData(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid album ID")
		return
	}

	token, err := h.Engine.GetAlbumToken(albumID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "album not found")
			return
		}
		log.Printf("Error resolving token for album %d: %v", albumID, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve album")
		return
	}
	if !h.Auth.AlbumAccessAllowed(r, token) {
		writeError(w, http.StatusUnauthorized, "valid album token required")
		return
	}

	records, err := h.Engine.GetDataByAlbum(albumID)
	if err != nil {
		log.Printf("Error listing data of album %d: %v", albumID, err)
		writeError(w, http.StatusInternalServerError, "failed to list album data")
		return
	}
	writeJSON(w, http.StatusOK, toDataInfos(records))
}

// DeleteAlbum marks an album and its records for removal; the scavenger
// performs the physical deletion later.
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid album ID")
		return
	}

	if err := h.Engine.RemoveAlbum(albumID, h.Auth.IsAdmin(r)); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "album not found")
		case errors.Is(err, storage.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "album does not allow removal")
		default:
			log.Printf("Error removing album %d: %v", albumID, err)
			writeError(w, http.StatusInternalServerError, "failed to remove album")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removing"})
}
