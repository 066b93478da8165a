// Package localfs implements the file store port on the local disk.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hmodding/website-jobs/internal/core"
)

// Store serves site-relative file paths from a root directory on disk.
type Store struct {
	root string
}

// NewStore builds a local file store rooted at the given directory.
func NewStore(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	return &Store{root: abs}, nil
}

var _ core.FileStore = (*Store)(nil)

// Read returns the contents of a stored file by its site-relative path.
func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return contents, nil
}

// DeleteTree removes everything under a path prefix. Removing an absent tree
// is a no-op.
func (s *Store) DeleteTree(_ context.Context, prefix string) error {
	full, err := s.resolve(prefix)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("delete tree %s: %w", prefix, err)
	}
	return nil
}

// resolve joins a site-relative path onto the root and rejects anything that
// escapes it.
func (s *Store) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root", path)
	}
	return full, nil
}
