package imaging

import (
	"fmt"
	"image"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"go-web-gallery/internal/model"
)

// ExtractMetadata reads the image dimensions and whatever EXIF data the file
// carries. EXIF is optional: a photo without it (or a format goexif cannot
// parse) still returns dimensions and the file's mtime as the taken-at time.
func ExtractMetadata(fullPath string) (model.PhotoMetadata, int, int, error) {
	meta := model.PhotoMetadata{}

	info, err := os.Stat(fullPath)
	if err != nil {
		return meta, 0, 0, err
	}
	meta.TakenAt = info.ModTime().UTC()

	width, height, err := decodeDimensions(fullPath)
	if err != nil {
		return meta, 0, 0, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return meta, width, height, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF segment is the common case for screenshots and web saves.
		return meta, width, height, nil
	}

	meta.Make = tagString(x, exif.Make)
	meta.Model = tagString(x, exif.Model)
	meta.ISO = tagString(x, exif.ISOSpeedRatings)
	meta.Aperture = tagString(x, exif.FNumber)
	meta.ExposureTime = tagString(x, exif.ExposureTime)

	if taken, err := x.DateTime(); err == nil {
		meta.TakenAt = taken.UTC()
	}
	if lat, long, err := x.LatLong(); err == nil {
		meta.GPSLatitude = lat
		meta.GPSLongitude = long
	}

	return meta, width, height, nil
}

func decodeDimensions(fullPath string) (int, int, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	if s, err := tag.StringVal(); err == nil {
		return s
	}
	return tag.String()
}
