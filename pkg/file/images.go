package file

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxImageSize is the upload limit for a single image.
const MaxImageSize int64 = 2 << 20

// ImageTypes are the MIME types accepted by Images.Upload.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// LocalConfig configures the on-disk image store used when no bucket is set.
type LocalConfig struct {
	Dir     string `env:"IMAGES_DIR" envDefault:"./uploads/images"`
	BaseURL string `env:"IMAGES_BASE_URL" envDefault:"/images/"`
}

// Image is a stored image as returned to API callers.
type Image struct {
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	Size      int64      `json:"size,omitempty"`
	MIMEType  string     `json:"content_type,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Images stores uploaded images under random names in a single flat directory.
type Images struct {
	storage Storage
	dir     string
	maxSize int64
}

type ImagesOption func(*Images)

// WithImageDir sets the directory (or key prefix) images are stored under.
func WithImageDir(dir string) ImagesOption {
	return func(i *Images) {
		i.dir = strings.Trim(dir, "/")
	}
}

// WithMaxImageSize overrides MaxImageSize.
func WithMaxImageSize(n int64) ImagesOption {
	return func(i *Images) {
		if n > 0 {
			i.maxSize = n
		}
	}
}

func NewImages(storage Storage, opts ...ImagesOption) *Images {
	i := &Images{storage: storage, maxSize: MaxImageSize}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Upload checks fh by content and size and stores it as "{uuid}.{ext}".
// The extension comes from the client's filename and defaults to png.
func (i *Images) Upload(ctx context.Context, fh *multipart.FileHeader) (*Image, error) {
	data, contentType, err := ReadImage(fh, i.maxSize)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))
	if ext == "" || !validName(ext) {
		ext = "png"
	}
	name := fmt.Sprintf("%s.%s", uuid.New(), ext)
	key := i.key(name)

	if err := i.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Image{
		Name:      name,
		URL:       i.storage.URL(key),
		Size:      int64(len(data)),
		MIMEType:  contentType,
		CreatedAt: &now,
	}, nil
}

// List returns stored images, newest first. A missing directory is an empty list.
func (i *Images) List(ctx context.Context) ([]Image, error) {
	objects, err := i.storage.List(ctx, i.dir)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(objects))
	for _, obj := range objects {
		name := path.Base(obj.Key)
		if !validName(name) {
			continue
		}
		img := Image{Name: name, URL: i.storage.URL(obj.Key), Size: obj.Size, MIMEType: obj.ContentType}
		if !obj.ModTime.IsZero() {
			created := obj.ModTime
			img.CreatedAt = &created
		}
		images = append(images, img)
	}

	slices.SortStableFunc(images, func(a, b Image) int {
		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return 0
		case a.CreatedAt == nil:
			return 1
		case b.CreatedAt == nil:
			return -1
		}
		return b.CreatedAt.Compare(*a.CreatedAt)
	})
	return images, nil
}

// Delete removes the image called name. Names with path components are rejected.
func (i *Images) Delete(ctx context.Context, name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return i.storage.Delete(ctx, i.key(name))
}

func (i *Images) key(name string) string {
	if i.dir == "" {
		return name
	}
	return path.Join(i.dir, name)
}

// ReadImage reads fh and returns its content and sniffed type. Only
// ImageTypes are accepted.
func ReadImage(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	data, err := readUpload(fh, maxSize)
	if err != nil {
		return nil, "", err
	}
	contentType := DetectContentType(data)
	if !slices.Contains(ImageTypes, contentType) {
		return nil, "", fmt.Errorf("%w: %s", ErrMIMETypeNotAllowed, contentType)
	}
	return data, contentType, nil
}
