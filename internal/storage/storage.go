// Package storage persists the tracker's records as opaque byte blobs under
// stable keys.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Record keys.
const (
	KeySettings      = "settings"
	KeyLogs          = "logs"
	KeySetupComplete = "setupComplete"
)

// ErrNotFound is returned by Get for keys that were never set.
var ErrNotFound = errors.New("key not found")

// WriteError reports a failed durable write of one record.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage error writing %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Gateway is a durable key-value blob store.
type Gateway interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the blob under key. Failures are *WriteError.
	Set(key string, data []byte) error
	// ClearAll removes every key.
	ClearAll() error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// BaseDir returns the root data directory: $HOURLOG_HOME if set, otherwise
// ~/.hourlog.
func BaseDir() (string, error) {
	if dir := os.Getenv("HOURLOG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hourlog"), nil
}

// Open returns the gateway for backend rooted at base.
func Open(backend, base string) (Gateway, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return NewFileGateway(filepath.Join(base, "data")), nil
	case BackendBadger:
		return OpenBadger(filepath.Join(base, "badger"))
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q (want file, badger or memory)", backend)
}

// Memory keeps records in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

func (m *Memory) Close() error { return nil }
