package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage keeps objects under a directory on disk. Every operation goes
// through os.Root, so symlinks and ".." cannot reach outside the directory.
type LocalStorage struct {
	dir     string
	baseURL string
	maxSize int64
}

type LocalOption func(*LocalStorage)

// WithLocalMaxSize rejects writes larger than n bytes.
func WithLocalMaxSize(n int64) LocalOption {
	return func(s *LocalStorage) { s.maxSize = n }
}

// NewLocalStorage creates dir when missing. Object URLs are baseURL + key.
func NewLocalStorage(dir, baseURL string, opts ...LocalOption) (*LocalStorage, error) {
	if dir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrStorage, abs, err)
	}

	s := &LocalStorage{dir: abs, baseURL: withSlash(baseURL)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *LocalStorage) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err = cleanKey(key)
	if err != nil {
		return err
	}

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer func() { _ = root.Close() }()

	if err := mkdirs(root, path.Dir(key)); err != nil {
		return err
	}

	f, err := root.OpenFile(key, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStorage, key, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %v", ErrStorage, cerr)
		}
		if err != nil {
			_ = root.Remove(key)
		}
	}()

	src := body
	if s.maxSize > 0 {
		src = io.LimitReader(body, s.maxSize+1)
	}
	n, err := io.Copy(f, ctxReader{ctx: ctx, r: src})
	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		return fmt.Errorf("%w: write %s: %v", ErrStorage, key, err)
	case s.maxSize > 0 && n > s.maxSize:
		return fmt.Errorf("%w: limit %d", ErrFileTooLarge, s.maxSize)
	}
	return nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer func() { _ = root.Close() }()

	info, err := root.Stat(key)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrFileNotFound, key)
	case err != nil:
		return fmt.Errorf("%w: stat %s: %v", ErrStorage, key, err)
	case info.IsDir():
		return fmt.Errorf("%w: %s is a directory", ErrInvalidName, key)
	}
	if err := root.Remove(key); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, key, err)
	}
	return nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := "."
	if strings.Trim(prefix, "/") != "" {
		var err error
		if dir, err = cleanKey(prefix); err != nil {
			return nil, err
		}
	}

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer func() { _ = root.Close() }()

	entries, err := fs.ReadDir(root.FS(), dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Object{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrStorage, dir, err)
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed while listing
		}
		key := e.Name()
		if dir != "." {
			key = path.Join(dir, key)
		}
		objects = append(objects, Object{
			Key:         key,
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(path.Ext(key)),
			ModTime:     info.ModTime(),
		})
	}
	return objects, nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + strings.TrimPrefix(key, "/")
}

// mkdirs creates each component of dir inside root.
func mkdirs(root *os.Root, dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	current := ""
	for part := range strings.SplitSeq(dir, "/") {
		current = path.Join(current, part)
		if err := root.Mkdir(current, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: mkdir %s: %v", ErrStorage, current, err)
		}
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func withSlash(u string) string {
	if u != "" && !strings.HasSuffix(u, "/") {
		return u + "/"
	}
	return u
}
