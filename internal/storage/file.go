package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileGateway stores each record as <dir>/<key>.json.
type FileGateway struct {
	dir string
}

// NewFileGateway returns a gateway rooted at dir. The directory is created on
// first write.
func NewFileGateway(dir string) *FileGateway {
	return &FileGateway{dir: dir}
}

func (g *FileGateway) path(key string) string {
	return filepath.Join(g.dir, key+".json")
}

func (g *FileGateway) Get(key string) ([]byte, error) {
	path := g.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return data, nil
}

// Set atomically replaces the record: write to a temp file, then rename.
func (g *FileGateway) Set(key string, data []byte) error {
	if err := os.MkdirAll(g.dir, 0o700); err != nil {
		return &WriteError{Key: key, Err: fmt.Errorf("creating directories: %w", err)}
	}

	path := g.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return &WriteError{Key: key, Err: fmt.Errorf("writing temp file: %w", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &WriteError{Key: key, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}

// ClearAll removes every record file under the directory.
func (g *FileGateway) ClearAll() error {
	matches, err := filepath.Glob(filepath.Join(g.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("storage error listing %s: %w", g.dir, err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage error removing %s: %w", m, err)
		}
	}
	return nil
}

func (g *FileGateway) Close() error { return nil }
