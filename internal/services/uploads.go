package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnshRaj112/lifestory-backend/pkg/utils"
)

// UploadURLPrefix is the public path under which stored uploads are served.
const UploadURLPrefix = "/uploads/"

// UploadStorage is a flat directory of uploaded and scratch files addressed by name.
type UploadStorage struct {
	dir string
	now func() time.Time
}

// NewUploadStorage creates dir if needed.
func NewUploadStorage(dir string) (*UploadStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStorage{dir: abs, now: time.Now}, nil
}

func (s *UploadStorage) Dir() string { return s.dir }

// UniqueName sanitises original and prefixes it with a microsecond timestamp so
// concurrent uploads of the same file do not collide. The prefix has no dot, so the
// extension of the result is always the extension of original.
func (s *UploadStorage) UniqueName(original string) string {
	name := utils.SecureFilename(original)
	if name == "" {
		name = "upload"
	}
	return timestampPrefix(s.now()) + "_" + name
}

// timestampPrefix renders t as YYYYMMDDhhmmss followed by six microsecond digits.
func timestampPrefix(t time.Time) string {
	return t.Format("20060102150405") + fmt.Sprintf("%06d", t.Nanosecond()/1e3)
}

// Path returns the absolute path of name inside the directory. Names that would
// escape the directory are rejected.
func (s *UploadStorage) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", &ValidationError{Field: "filename", Message: "Invalid file name."}
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes r under a unique name derived from original and returns that name.
func (s *UploadStorage) Save(original string, r io.Reader) (string, error) {
	name := s.UniqueName(original)
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

// Open returns the stored file, or ErrNotFound.
func (s *UploadStorage) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *UploadStorage) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes name. A file that is already gone is not an error.
func (s *UploadStorage) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return removeIfExists(path)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// removeScratch deletes a scratch file, logging instead of returning failures.
func removeScratch(path, what string) {
	if err := removeIfExists(path); err != nil {
		log.Printf("Warning: could not remove %s %s: %v", what, path, err)
	}
}
