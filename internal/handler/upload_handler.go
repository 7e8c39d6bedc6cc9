package handler

import (
	"net/http"
	"strings"

	"go-web-gallery/internal/middleware"
	"go-web-gallery/internal/service"
	"go-web-gallery/pkg/apierror"
)

// memoryThreshold is how much of the multipart body is held in memory
// before the parser spools parts to temp files.
const memoryThreshold = 32 << 20

type UploadHandler struct {
	service       *service.UploadService
	maxUploadSize int64
}

func NewUploadHandler(service *service.UploadService, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{service: service, maxUploadSize: maxUploadSize}
}

// Upload accepts a multipart form with a "photo" file part and an optional
// "path" part naming the destination folder. The whole form is parsed
// before acting, so the field order does not matter.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	if err := r.ParseMultipartForm(memoryThreshold); err != nil {
		if isPayloadTooLarge(err) {
			writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "MAX_UPLOAD_SIZE", http.StatusRequestEntityTooLarge))
			return
		}
		writeError(w, apierror.New("BAD_REQUEST", "invalid multipart body", err.Error(), http.StatusBadRequest))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	subdir := strings.TrimSpace(r.FormValue("path"))

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "multipart form is missing a 'photo' file part", "photo", http.StatusBadRequest))
		return
	}
	defer file.Close()

	result, err := h.service.Upload(r.Context(), file, header.Filename, subdir, claims.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func isPayloadTooLarge(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}
