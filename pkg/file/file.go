package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"
)

// Object is one stored blob.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Storage is a flat key/value blob store addressed by slash separated keys.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete returns ErrFileNotFound for a missing key.
	Delete(ctx context.Context, key string) error
	// List returns the objects directly under prefix. A missing prefix is not an error.
	List(ctx context.Context, prefix string) ([]Object, error)
	URL(key string) string
}

// cleanKey normalizes key and rejects anything that could leave the root.
func cleanKey(key string) (string, error) {
	key = strings.Trim(strings.ReplaceAll(key, `\`, "/"), "/")
	if key == "" || strings.ContainsRune(key, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	cleaned := path.Clean(key)
	if cleaned != key || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return cleaned, nil
}

// validName accepts a bare file name as returned by Images.List.
func validName(name string) bool {
	return name != "" &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, "/\\\x00")
}

// DetectContentType sniffs data with http.DetectContentType. The client's
// Content-Type header and file extension are never trusted.
func DetectContentType(data []byte) string {
	return http.DetectContentType(data)
}

// readUpload reads at most maxSize bytes of fh. FileHeader.Size is checked
// first but the byte count is authoritative.
func readUpload(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	if maxSize > 0 && fh.Size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, fh.Size, maxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %v", ErrStorage, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", ErrStorage, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: limit %d", ErrFileTooLarge, maxSize)
	}
	return data, nil
}
