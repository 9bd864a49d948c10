// Package filex manages the local cache of book binaries: one opaque file per
// book, addressed by book id. The cache is reconciled against the remote
// mirror's listing during a full sync; file contents are never inspected.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if missing and returns its path.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// BookCache stores one blob per book id under a base directory.
type BookCache struct {
	dir string
}

func NewBookCache(dir string) (*BookCache, error) {
	d, err := EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &BookCache{dir: d}, nil
}

// Path returns the cache file path for a book id.
func (c *BookCache) Path(id string) string {
	return filepath.Join(c.dir, id)
}

// Has reports whether a cached file exists for the book.
func (c *BookCache) Has(id string) bool {
	info, err := os.Stat(c.Path(id))
	return err == nil && !info.IsDir()
}

// Store writes the blob for a book, replacing any previous content. The write
// goes through a temp file so a failed download never leaves a truncated book.
func (c *BookCache) Store(id string, r io.Reader) error {
	tmp, err := os.CreateTemp(c.dir, id+".tmp*")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(id)); err != nil {
		return fmt.Errorf("error replacing file: %w", err)
	}
	return nil
}

// Open returns a reader over the cached blob for upload.
func (c *BookCache) Open(id string) (io.ReadCloser, error) {
	f, err := os.Open(c.Path(id))
	if err != nil {
		return nil, fmt.Errorf("error opening cached book: %w", err)
	}
	return f, nil
}
