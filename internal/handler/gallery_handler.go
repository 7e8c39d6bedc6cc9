package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go-web-gallery/internal/service"
	"go-web-gallery/pkg/apierror"
)

type GalleryHandler struct {
	service *service.GalleryService
}

func NewGalleryHandler(service *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// List serves one page of the gallery, newest first, optionally filtered to
// a single folder with the path query parameter.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, apierror.New("BAD_REQUEST", "page must be a positive integer", "page", http.StatusBadRequest))
			return
		}
		page = parsed
	}

	pathFilter := strings.TrimSpace(r.URL.Query().Get("path"))

	result, err := h.service.List(r.Context(), page, pathFilter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *GalleryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Tree(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"folders": tree})
}
