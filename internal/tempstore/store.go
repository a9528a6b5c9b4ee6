package tempstore

import (
	"os"

	"go-doc-inspector/internal/logger"
)

// Store creates and deletes on-disk seekable copies of archive members.
// Every file created during one extraction call is owned by that call; the
// caller collects the paths and removes them all when the call ends.
type Store struct {
	dir string
}

// New creates a Store. An empty dir places files in the system temp
// directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Create returns a new, empty, exclusively-owned file whose name ends with
// suffix. The caller is responsible for closing and eventually removing it.
func (s *Store) Create(suffix string) (*os.File, error) {
	return os.CreateTemp(s.dir, "member-*"+suffix)
}

// Remove deletes the file at path if it exists. Deletion failures are logged
// and swallowed so that cleanup never masks the primary result. A missing
// file is not a failure.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).WithField("path", path).Warn("Failed to remove temp file")
	}
}

// RemoveAll deletes every path in the slice via Remove.
func (s *Store) RemoveAll(paths []string) {
	for _, p := range paths {
		s.Remove(p)
	}
}
