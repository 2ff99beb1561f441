package cache

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
)

// ErrQuotaExceeded is returned by a PersistentTier write when the tier's
// storage budget would be exceeded. The store reacts by evicting and
// retrying once; the error never reaches callers of the store.
var ErrQuotaExceeded = errors.New("persistent cache quota exceeded")

// ErrNotFound is returned by a PersistentTier read for an absent key
var ErrNotFound = errors.New("cache entry not found")

// PersistentTier is the durable half of the two-tier store. Implementations
// must be safe for concurrent use.
type PersistentTier interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

// FileTier persists entries as one file per key under a directory, with
// a byte quota standing in for the storage partition limit.
type FileTier struct {
	dir   string
	quota int64
}

// NewFileTier creates the backing directory if needed
func NewFileTier(dir string, quotaBytes int64) (*FileTier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileTier{dir: dir, quota: quotaBytes}, nil
}

// Read returns the stored bytes for key, or ErrNotFound
func (t *FileTier) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(t.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write stores data under key, enforcing the byte quota across all keys
func (t *FileTier) Write(key string, data []byte) error {
	used, err := t.usage()
	if err != nil {
		return err
	}

	path := t.path(key)
	if prev, err := os.Stat(path); err == nil {
		used -= prev.Size()
	}

	if used+int64(len(data)) > t.quota {
		return ErrQuotaExceeded
	}

	return os.WriteFile(path, data, 0o644)
}

// Delete removes the entry for key; absent keys are not an error
func (t *FileTier) Delete(key string) error {
	err := os.Remove(t.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Keys lists every stored key
func (t *FileTier) Keys() ([]string, error) {
	dirEntries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		key, err := url.PathUnescape(e.Name())
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (t *FileTier) path(key string) string {
	return filepath.Join(t.dir, url.PathEscape(key))
}

func (t *FileTier) usage() (int64, error) {
	dirEntries, err := os.ReadDir(t.dir)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range dirEntries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}
