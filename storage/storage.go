// Package storage owns the document files on disk. Files are written
// under a directory that is never mapped to a URL; handlers resolve them
// through database ids only.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// StoredName builds a globally unique filename for a lead's document.
// The uuid suffix keeps concurrent uploads (same lead or not) from ever
// colliding.
func (s *Store) StoredName(leadID uint, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("lead-%d-%d-%s%s", leadID, time.Now().UnixNano(), suffix, ext)
}

// Save writes data to the store under name. The caller inserts the
// database row only after Save succeeds, and calls Remove if that
// insert fails, so row and file never diverge.
func (s *Store) Save(name string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

func (s *Store) Open(name string) (*os.File, error) {
	return os.Open(filepath.Join(s.dir, name))
}

func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
