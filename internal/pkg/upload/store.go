package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxFileSize = 10 * 1024 * 1024 // 10 MB per image

var ErrEmptyFile = errors.New("empty file")
var ErrFileTooLarge = errors.New("file too large")
var ErrUnsupportedType = errors.New("unsupported file type")

var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store saves space images to local disk. Save returns the stored
// relative paths plus a cleanup function that removes everything
// written so far; callers defer it and disarm on success, so every
// error path releases the files.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) Save(files []*multipart.FileHeader) (paths []string, cleanup func(), err error) {
	cleanup = func() { s.Remove(paths) }

	for _, fh := range files {
		var p string
		p, err = s.saveOne(fh)
		if err != nil {
			return paths, cleanup, err
		}
		paths = append(paths, p)
	}
	return paths, cleanup, nil
}

func (s *Store) saveOne(fh *multipart.FileHeader) (string, error) {
	if fh.Size == 0 {
		return "", ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	mime := http.DetectContentType(head[:n])
	mime = strings.TrimSpace(strings.Split(mime, ";")[0])
	ext, ok := allowedMimeTypes[mime]
	if !ok {
		return "", ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := uuid.New().String() + ext
	full := filepath.Join(s.baseDir, name)

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join("uploads", name)), nil
}

// Remove deletes stored files, ignoring files already gone.
func (s *Store) Remove(paths []string) {
	for _, p := range paths {
		full := filepath.Join(s.baseDir, filepath.Base(p))
		_ = os.Remove(full)
	}
}
