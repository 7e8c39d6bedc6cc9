package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-web-gallery/internal/storage"
	"go-web-gallery/internal/util"
	"go-web-gallery/pkg/apierror"
)

// MediaHandler serves originals and generated variants straight off the
// media tree. Path validation happens in the storage layer so a crafted URL
// can never escape the root.
type MediaHandler struct {
	store *storage.Storage
}

func NewMediaHandler(store *storage.Storage) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	requested := strings.TrimSpace(chi.URLParam(r, "*"))
	if requested == "" {
		writeError(w, apierror.New("BAD_REQUEST", "a media path is required", "", http.StatusBadRequest))
		return
	}

	resolved, err := h.store.Resolve(requested)
	if err != nil {
		writeError(w, err)
		return
	}

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, apierror.New("NOT_FOUND", "media file not found", requested, http.StatusNotFound))
			return
		}
		writeError(w, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		writeError(w, err)
		return
	}
	if info.IsDir() {
		writeError(w, apierror.New("NOT_FOUND", "media file not found", requested, http.StatusNotFound))
		return
	}

	mimeType, err := util.DetectMIMEFromFile(file)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, filepath.Base(resolved), info.ModTime(), file)
}
