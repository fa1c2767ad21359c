package handlers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"github.com/zerogal/zerogalbackend/config"
	"github.com/zerogal/zerogalbackend/storage"
)

// placeholder assets served when a record exists but its file (or preview)
// has not been produced yet
const (
	blankPreviewAsset = "blank_preview.jpg"
	blankDataAsset    = "blank.bin"
)

type DataHandler struct {
	Engine *storage.Engine
	Auth   TokenAuth
	Cfg    config.Config
}

func NewDataHandler(engine *storage.Engine, auth TokenAuth, cfg config.Config) *DataHandler {
	return &DataHandler{Engine: engine, Auth: auth, Cfg: cfg}
}

// ListUnassignedData returns records that belong to no album.
func (h *DataHandler) ListUnassignedData(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.GetDataWithoutAlbums()
	if err != nil {
		log.Printf("Error listing unassigned data: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list data")
		return
	}
	writeJSON(w, http.StatusOK, toDataInfos(records))
}

// ServeData streams a record's primary file, honoring range requests.
func (h *DataHandler) ServeData(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, h.Engine.GetData, blankDataAsset)
}

// ServePreview streams a record's JPEG preview, falling back to the blank
// placeholder while the preview worker has not produced one yet.
func (h *DataHandler) ServePreview(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, h.Engine.GetPreview, blankPreviewAsset)
}

func (h *DataHandler) serveFile(w http.ResponseWriter, r *http.Request, resolve func(int64) (*storage.FileDescriptor, error), placeholder string) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid data ID")
		return
	}

	token, err := h.Engine.GetItemAlbumToken(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "data not found")
			return
		}
		log.Printf("Error resolving token for data %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve data")
		return
	}
	if !h.Auth.AlbumAccessAllowed(r, token) {
		writeError(w, http.StatusUnauthorized, "valid album token required")
		return
	}

	desc, err := resolve(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "data not found")
			return
		}
		log.Printf("Error resolving file for data %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve data")
		return
	}

	if desc.Missing {
		http.ServeFile(w, r, filepath.Join(h.Cfg.AssetsPath, placeholder))
		return
	}

	w.Header().Set("Content-Type", desc.MimeType)
	// ServeFile would sniff the extensionless shard file; the record already
	// carries the authoritative type
	http.ServeFile(w, r, desc.FilePath)
}

// DeleteData marks a record for removal; the scavenger deletes it later.
func (h *DataHandler) DeleteData(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid data ID")
		return
	}

	if err := h.Engine.RemoveRecord(id, h.Auth.IsAdmin(r)); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "data not found")
		case errors.Is(err, storage.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "album does not allow data removal")
		default:
			log.Printf("Error removing data %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to remove data")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removing"})
}
