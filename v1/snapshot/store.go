// Package snapshot defines the key/blob contract used to persist the schema cache
// and provides a filesystem implementation.
//
// A snapshot is an opaque byte slice stored under a key. Backends for object storage
// live in the minio, s3 and redis packages; all of them satisfy Store and report a
// missing key as ErrNotFound.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultKey is the key used when no explicit key is configured.
const DefaultKey = "db-schema.json"

// ErrNotFound is returned by Load when no snapshot exists under the key.
var ErrNotFound = errors.New("snapshot: not found")

// Store persists snapshots.
type Store interface {
	// Load returns the snapshot stored under key or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the snapshot stored under key.
	Save(ctx context.Context, key string, data []byte) error
}

// FileStore keeps each snapshot as a file inside Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// DefaultDir is the directory used when schema caching is enabled without an
// explicit path: <user cache dir>/sqlshim, or <tmp>/sqlshim when the platform has
// no cache directory.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "sqlshim")
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("snapshot: invalid key %q", key)
	}
	return filepath.Join(f.Dir, key), nil
}

// Load reads Dir/key.
func (f *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", p, err)
	}
	return data, nil
}

// Save writes Dir/key through a temporary file and a rename so readers never
// observe a half-written snapshot.
func (f *FileStore) Save(_ context.Context, key string, data []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create %s: %w", f.Dir, err)
	}

	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: open %s for writing: %w", f.Dir, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("snapshot: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("snapshot: replace %s: %w", p, err)
	}
	return nil
}

// Memory is an in-process Store, mostly useful in tests and for short-lived tools.
type Memory struct {
	items map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{items: map[string][]byte{}}
}

// Load returns a copy of the stored bytes.
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	data, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data.
func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	m.items[key] = append([]byte(nil), data...)
	return nil
}
