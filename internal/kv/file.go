package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all keys in a single JSON file, rewritten on every
// mutation. It mirrors the browser-localStorage model: cheap, durable
// enough for one session, and tolerant of a corrupt or missing file.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string][]byte
}

// NewFileStore opens (or creates) the store at path. A missing or
// unparseable file starts the store empty rather than failing.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}

	s := &FileStore{path: path, data: make(map[string][]byte)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	// Corrupt content is discarded, not fatal.
	var data map[string][]byte
	if err := json.Unmarshal(raw, &data); err == nil && data != nil {
		s.data = data
	}
	return s, nil
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return s.flush()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

func (s *FileStore) Close() error { return nil }

// Size reports the current on-disk size of the store file.
func (s *FileStore) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// flush rewrites the whole file. Caller must hold s.mu.
func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
