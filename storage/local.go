package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"moviecatalog/errs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const DefaultPrefix = "public/images"

var ErrUnsupportedImage = errs.Errorf(errs.EINVALID, "Poster must be a jpg, jpeg, png, gif or webp image")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStore keeps uploaded posters on the local disk under Dir and hands
// out paths relative to the public Prefix, e.g. "public/images/<uuid>.png".
type LocalStore struct {
	Dir    string
	Prefix string
}

func NewLocalStore(dir, prefix string) (*LocalStore, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return &LocalStore{Dir: dir, Prefix: strings.Trim(prefix, "/")}, nil
}

// Save copies the uploaded file to disk under a random name and returns the
// stored relative path.
func (s *LocalStore) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExtensions[ext] {
		return "", ErrUnsupportedImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("storage: close file: %w", err)
	}

	return path.Join(s.Prefix, name), nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// store are ignored.
func (s *LocalStore) Remove(stored string) error {
	name, ok := strings.CutPrefix(stored, s.Prefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}
