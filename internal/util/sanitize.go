package util

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"go-web-gallery/pkg/apierror"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename strips control and invisible characters, replaces
// filesystem-hostile characters, and rejects names that are empty or hidden
// after cleaning.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(name), `"'`)
	if trimmed == "" {
		return "", apierror.New("INVALID_FILENAME", "filename cannot be empty", "", http.StatusBadRequest)
	}

	if strings.Contains(trimmed, "\x00") {
		return "", apierror.New("INVALID_FILENAME", "filename contains null bytes", trimmed, http.StatusBadRequest)
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", apierror.New("INVALID_FILENAME", "filename is invalid after sanitization", trimmed, http.StatusBadRequest)
	}

	if strings.HasPrefix(cleaned, ".") {
		return "", apierror.New("INVALID_FILENAME", "hidden filenames are not allowed", cleaned, http.StatusBadRequest)
	}

	// Truncate by runes, not bytes, to avoid splitting multi-byte characters.
	runes := []rune(cleaned)
	if len(runes) > 255 {
		runes = runes[:255]
	}

	return string(runes), nil
}

// IsAllowedImageExtension reports whether the filename carries one of the
// photo formats the gallery accepts.
func IsAllowedImageExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".tif", ".gif", ".webp":
		return true
	default:
		return false
	}
}
