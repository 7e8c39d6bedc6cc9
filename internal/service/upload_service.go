package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-web-gallery/internal/event"
	"go-web-gallery/internal/imaging"
	"go-web-gallery/internal/model"
	"go-web-gallery/internal/storage"
	"go-web-gallery/internal/util"
	"go-web-gallery/pkg/apierror"
)

type photoWriter interface {
	Insert(ctx context.Context, p model.Photo, meta model.PhotoMetadata) (int64, error)
}

// UploadService receives multipart photo uploads, files them under the media
// root and records them with their extracted metadata.
type UploadService struct {
	store   *storage.Storage
	photos  photoWriter
	bus     event.Bus
	tempDir string
}

func NewUploadService(store *storage.Storage, photos photoWriter, bus event.Bus, tempDir string) (*UploadService, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, err
	}
	return &UploadService{
		store:   store,
		photos:  photos,
		bus:     bus,
		tempDir: tempDir,
	}, nil
}

// Upload streams the incoming file to a temp location, validates it, moves it
// into the media tree and records the database row. A database failure after
// the file has been placed is reported as a partial success so the file is
// not lost.
func (s *UploadService) Upload(ctx context.Context, reader io.Reader, filename string, subdir string, uploader string) (model.UploadResponse, error) {
	safeName, err := util.SanitizeFilename(filename)
	if err != nil {
		return model.UploadResponse{}, err
	}

	if !util.IsAllowedImageExtension(safeName) {
		return model.UploadResponse{}, apierror.New("UNSUPPORTED_TYPE", "file type is not an accepted image format", safeName, http.StatusUnsupportedMediaType)
	}

	subdir = strings.Trim(strings.ReplaceAll(subdir, "\\", "/"), "/")
	destPath := safeName
	if subdir != "" {
		destPath = path.Join(subdir, safeName)
	}
	// Validate the destination before touching the disk.
	if _, err := s.store.Resolve(destPath); err != nil {
		return model.UploadResponse{}, err
	}

	tmpPath := filepath.Join(s.tempDir, uuid.NewString()+filepath.Ext(safeName))
	written, err := s.writeTemp(tmpPath, reader)
	if err != nil {
		return model.UploadResponse{}, err
	}
	defer os.Remove(tmpPath)

	meta, width, height, err := imaging.ExtractMetadata(tmpPath)
	if err != nil {
		return model.UploadResponse{}, apierror.New("UNSUPPORTED_TYPE", "file could not be decoded as an image", err.Error(), http.StatusUnsupportedMediaType)
	}

	fullPath, err := s.store.Move(tmpPath, destPath)
	if err != nil {
		return model.UploadResponse{}, err
	}

	photo := model.Photo{
		FileName:     safeName,
		FilePath:     dirComponent(subdir),
		FullPath:     fullPath,
		FileSize:     written,
		Width:        width,
		Height:       height,
		FileDatetime: meta.TakenAt,
		UploadUser:   uploader,
	}

	id, err := s.photos.Insert(ctx, photo, meta)
	if err != nil {
		slog.Error("photo stored on disk but not recorded", "file", destPath, "error", err)
		return model.UploadResponse{
			Status:   "partial_success",
			Message:  "file saved but could not be recorded; it will be picked up on re-upload",
			Path:     destPath,
			Filename: safeName,
		}, nil
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypePhotoUploaded,
		Payload:   event.PhotoUploaded{PhotoID: id, FullPath: fullPath, Uploader: uploader},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	return model.UploadResponse{
		Status:   "success",
		Message:  "photo uploaded",
		Path:     destPath,
		URL:      "/media/" + strings.ReplaceAll(destPath, "\\", "/"),
		PhotoID:  id,
		Filename: safeName,
	}, nil
}

func (s *UploadService) writeTemp(tmpPath string, reader io.Reader) (int64, error) {
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}

	written, err := io.CopyBuffer(tmp, reader, make([]byte, 32*1024))
	closeErr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return 0, closeErr
	}
	return written, nil
}

// dirComponent stores the folder part with a trailing slash, matching how
// gallery rows are keyed ("" for the root).
func dirComponent(subdir string) string {
	if subdir == "" {
		return ""
	}
	return subdir + "/"
}
