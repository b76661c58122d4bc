// Package fs stores crawl artifacts as files on the local disk.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Storage = (*Store)(nil)

// Store writes artifacts below a base directory. Each write lands in a
// temporary file that is renamed over the target, so readers never observe
// a partial artifact.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the base directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes data to dir/path, replacing any existing file.
func (s *Store) Put(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "writing %s: %v", path, err)
	}

	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "creating directory for %s: %v", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "creating temp file for %s: %v", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "writing %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "closing %s: %v", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "chmod %s: %v", path, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return sitecrawl.Errorf(sitecrawl.ESTORAGE, "renaming %s: %v", path, err)
	}
	return nil
}

// Get reads the artifact at path.
func (s *Store) Get(path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "artifact %s not found", path)
	} else if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.ESTORAGE, "reading %s: %v", path, err)
	}
	return data, nil
}

// resolve maps a slash-separated artifact path into the base directory,
// rejecting paths that would escape it.
func (s *Store) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if path == "" || filepath.IsAbs(clean) || clean == "." || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "invalid artifact path %q", path)
	}
	return filepath.Join(s.dir, clean), nil
}
