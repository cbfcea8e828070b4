package ports

import "io"

// FileStore persists uploaded recording files. Save returns the stored
// filename, which is unique per upload.
type FileStore interface {
	Save(originalName string, r io.Reader) (filename string, size int64, err error)
	Remove(filename string) error
}
