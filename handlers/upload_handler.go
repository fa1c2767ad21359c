package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/zerogal/zerogalbackend/models"
	"github.com/zerogal/zerogalbackend/storage"
)

type UploadHandler struct {
	Engine *storage.Engine
	Auth   TokenAuth
}

func NewUploadHandler(engine *storage.Engine, auth TokenAuth) *UploadHandler {
	return &UploadHandler{Engine: engine, Auth: auth}
}

// Upload stores one or more multipart files. The optional albumId path
// parameter assigns them to an album, which requires that album's token in
// addition to the write token.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	albumID := models.NoAlbumID
	if id, err := parseIDParam(r, "albumId"); err == nil {
		albumID = id
	}

	if albumID != models.NoAlbumID {
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
	}

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart form data required")
		return
	}

	description := r.URL.Query().Get("description")
	tags := r.URL.Query().Get("tags")

	var stored []DataInfo
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}
		if part.FileName() == "" {
			part.Close()
			continue
		}

		record, err := h.Engine.Write(part.FileName(), description, tags, albumID, part)
		part.Close()
		if err != nil {
			log.Printf("Error storing upload '%s': %v", part.FileName(), err)
			writeError(w, http.StatusInternalServerError, "failed to store uploaded file")
			return
		}
		stored = append(stored, toDataInfo(*record))
	}

	if len(stored) == 0 {
		writeError(w, http.StatusBadRequest, "no files in upload")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}
