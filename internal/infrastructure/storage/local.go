package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"camdeck/internal/core/ports"
	"camdeck/pkg/utils"
)

// LocalStore keeps uploaded recording files on the local filesystem, one file
// per upload under a unique name.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

var _ ports.FileStore = (*LocalStore)(nil)

func (s *LocalStore) Save(originalName string, r io.Reader) (string, int64, error) {
	ext := filepath.Ext(originalName)
	name := utils.GenerateUploadName(ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", 0, fmt.Errorf("failed to write upload file: %w", err)
	}

	return name, size, nil
}

func (s *LocalStore) Remove(filename string) error {
	// The stored name is always a bare base name; reject anything that could
	// escape the upload directory.
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid stored filename: %q", filename)
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the absolute location of a stored file.
func (s *LocalStore) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}
