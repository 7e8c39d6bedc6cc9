package model

import "time"

// Photo is one row in the pictures table.
type Photo struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"filename"`
	FilePath     string    `json:"file_path"`
	FullPath     string    `json:"-"`
	FileSize     int64     `json:"file_size"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	FileDatetime time.Time `json:"file_datetime"`
	UploadUser   string    `json:"upload_user"`
}

// PhotoMetadata groups the EXIF/IPTC side tables written alongside a photo.
type PhotoMetadata struct {
	Make         string
	Model        string
	ISO          string
	Aperture     string
	ExposureTime string
	GPSLatitude  float64
	GPSLongitude float64
	TakenAt      time.Time

	Title       string
	Caption     string
	Description string
	Copyright   string

	Country     string
	CountryCode string
	Province    string
	City        string

	Keywords []string
}

// GalleryItem is one entry of a gallery page, joined with location data.
type GalleryItem struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type GalleryPage struct {
	Items []GalleryItem `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}

// FolderNode is one node of the folder tree derived from the flat
// file_path values stored with each picture.
type FolderNode struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Children []*FolderNode `json:"children,omitempty"`
}
