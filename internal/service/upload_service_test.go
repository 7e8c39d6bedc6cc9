package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-web-gallery/internal/event"
	"go-web-gallery/internal/model"
	"go-web-gallery/internal/storage"
)

type fakePhotoWriter struct {
	inserted []model.Photo
	failWith error
}

func (f *fakePhotoWriter) Insert(_ context.Context, p model.Photo, _ model.PhotoMetadata) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.inserted = append(f.inserted, p)
	return int64(len(f.inserted)), nil
}

func pngBytes(t *testing.T, width int, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUploadService(t *testing.T, photos *fakePhotoWriter) (*UploadService, *storage.Storage) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	svc, err := NewUploadService(store, photos, event.NewBus(), t.TempDir())
	require.NoError(t, err)
	return svc, store
}

func TestUpload_Success(t *testing.T) {
	photos := &fakePhotoWriter{}
	svc, store := newUploadService(t, photos)

	body := pngBytes(t, 40, 30)
	result, err := svc.Upload(context.Background(), bytes.NewReader(body), "beach.png", "2024/trip", "alice")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, int64(1), result.PhotoID)
	assert.Equal(t, "2024/trip/beach.png", result.Path)
	assert.Equal(t, "/media/2024/trip/beach.png", result.URL)

	resolved, err := store.Resolve("2024/trip/beach.png")
	require.NoError(t, err)
	saved, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Equal(t, body, saved)

	require.Len(t, photos.inserted, 1)
	recorded := photos.inserted[0]
	assert.Equal(t, "beach.png", recorded.FileName)
	assert.Equal(t, "2024/trip/", recorded.FilePath)
	assert.Equal(t, 40, recorded.Width)
	assert.Equal(t, 30, recorded.Height)
	assert.Equal(t, "alice", recorded.UploadUser)
	assert.Equal(t, int64(len(body)), recorded.FileSize)
}

func TestUpload_RootFolder(t *testing.T) {
	photos := &fakePhotoWriter{}
	svc, _ := newUploadService(t, photos)

	result, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "solo.png", "", "alice")
	require.NoError(t, err)

	assert.Equal(t, "solo.png", result.Path)
	require.Len(t, photos.inserted, 1)
	assert.Equal(t, "", photos.inserted[0].FilePath)
}

func TestUpload_RejectsNonImageExtension(t *testing.T) {
	svc, _ := newUploadService(t, &fakePhotoWriter{})

	_, err := svc.Upload(context.Background(), bytes.NewReader([]byte("#!/bin/sh")), "script.sh", "", "alice")
	assert.Error(t, err)
}

func TestUpload_RejectsUndecodableImage(t *testing.T) {
	svc, store := newUploadService(t, &fakePhotoWriter{})

	_, err := svc.Upload(context.Background(), bytes.NewReader([]byte("not a real png")), "fake.png", "", "alice")
	assert.Error(t, err)

	resolved, resolveErr := store.Resolve("fake.png")
	require.NoError(t, resolveErr)
	assert.NoFileExists(t, resolved)
}

func TestUpload_RejectsTraversalInPath(t *testing.T) {
	svc, _ := newUploadService(t, &fakePhotoWriter{})

	_, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "escape.png", "../outside", "alice")
	assert.Error(t, err)
}

func TestUpload_PartialSuccessWhenRecordingFails(t *testing.T) {
	photos := &fakePhotoWriter{failWith: model.ErrStoreUnavailable}
	svc, store := newUploadService(t, photos)

	result, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), "orphan.png", "", "alice")
	require.NoError(t, err)

	assert.Equal(t, "partial_success", result.Status)
	assert.Zero(t, result.PhotoID)

	// The file stays on disk even though the row was lost.
	resolved, resolveErr := store.Resolve("orphan.png")
	require.NoError(t, resolveErr)
	assert.FileExists(t, resolved)
}
