package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage is the validated filesystem root holding the photo library.
type Storage struct {
	validator *PathValidator
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

// Resolve validates a client path and returns the absolute location under
// the media root.
func (s *Storage) Resolve(clientPath string) (string, error) {
	return s.validator.ResolvePath(clientPath)
}

func (s *Storage) MkdirAll(clientPath string, perm os.FileMode) error {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return err
	}
	return os.MkdirAll(resolved, perm)
}

// Move places src at the validated destination, overwriting an existing
// file the way the gallery treats re-uploads.
func (s *Storage) Move(src string, destClientPath string) (string, error) {
	resolved, err := s.Resolve(destClientPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}

	if err := os.Rename(src, resolved); err != nil {
		return "", fmt.Errorf("move file into media root: %w", err)
	}

	return resolved, nil
}
