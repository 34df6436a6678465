package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

// KeyValueStore is the durable storage collaborator: a flat string store.
// Get reports presence separately from failure, so a missing key is not an
// error.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// FileStore keeps each key in its own file under a directory. It is the
// default KeyValueStore for the CLI; tests substitute in-memory stores.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".json")
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read settings key %q: %w", key, err)
	}
	return string(data), true, nil
}

func (fs *FileStore) Set(key, value string) error {
	// write-then-rename so a crash never leaves a truncated record
	tmp := fs.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write settings key %q: %w", key, err)
	}
	if err := os.Rename(tmp, fs.path(key)); err != nil {
		return fmt.Errorf("failed to commit settings key %q: %w", key, err)
	}
	return nil
}

func (fs *FileStore) Remove(key string) error {
	err := os.Remove(fs.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove settings key %q: %w", key, err)
	}
	return nil
}
