package storage

import (
	"path"
	"strings"
)

// SanitizeFileName derives a storable file name from a client-declared one.
// Surrounding quotes and any directory components are dropped, so the result never escapes the target directory.
func SanitizeFileName(declared string) (string, error) {
	name := strings.TrimSpace(declared)
	name = strings.Trim(name, `"`)
	// Browsers on Windows may send full paths
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	if name == "" || name == "." || name == ".." || name == "/" || strings.ContainsRune(name, 0) {
		return "", ErrInvalidFileName
	}

	return name, nil
}

// sizeWriter tracks the total number of bytes written
type sizeWriter struct {
	size int64
}

// Write implements io.Writer interface
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a new SizeWriter instance
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{}
}
