package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

var (
	ErrFileExists      = errors.New("file already exists")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidFileName = errors.New("invalid file name")
)

// localStorage stores files under dir inside basePath.
// References returned to callers are relative to basePath and always use forward slashes.
type localStorage struct {
	basePath string
	dir      string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath, dir string) *localStorage {
	return &localStorage{
		basePath: basePath,
		dir:      filepath.ToSlash(filepath.Clean(dir)),
	}
}

// reference returns the relative reference of filename
func (s *localStorage) reference(filename string) string {
	return path.Join(s.dir, filename)
}

// fullPath resolves a reference to a path on disk
func (s *localStorage) fullPath(ref string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(ref))
}

// Save writes src to a new file named after the sanitized declared filename and returns its reference.
// Existing files are never overwritten. A partially written or empty file is removed before returning.
func (s *localStorage) Save(declaredName string, src io.Reader) (string, error) {
	filename, err := SanitizeFileName(declaredName)
	if err != nil {
		return "", err
	}

	ref := s.reference(filename)
	fullPath := s.fullPath(ref)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrFileExists, ref)
		}
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	// Count bytes while copying
	sizeWriter := NewSizeWriter()
	_, copyErr := io.Copy(file, io.TeeReader(src, sizeWriter))
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", copyErr)
	case closeErr != nil:
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	case sizeWriter.Size() == 0:
		os.Remove(fullPath)
		return "", ErrEmptyFile
	}

	return ref, nil
}

// Delete removes the file behind a reference returned by Save
func (s *localStorage) Delete(ref string) error {
	return os.Remove(s.fullPath(ref))
}
