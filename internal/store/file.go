package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps every key in a single JSON object file.
// Human-readable and portable. No locking; the last writer wins.
type FileStore struct {
	path   string
	closed bool
}

// NewFileStore returns a FileStore backed by path. The parent directory is
// created if needed; the file itself is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path is the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	kv := map[string]string{}
	if len(b) == 0 {
		return kv, nil
	}
	if err := json.Unmarshal(b, &kv); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return kv, nil
}

func (s *FileStore) save(kv map[string]string) error {
	b, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *FileStore) GetItem(key string) (string, bool, error) {
	if s.closed {
		return "", false, ErrClosed
	}
	kv, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := kv[key]
	return v, ok, nil
}

func (s *FileStore) SetItem(key, value string) error {
	if s.closed {
		return ErrClosed
	}
	kv, err := s.load()
	if err != nil {
		// An unreadable file must not block writes; start over.
		kv = map[string]string{}
	}
	kv[key] = value
	return s.save(kv)
}

func (s *FileStore) RemoveItem(key string) error {
	if s.closed {
		return ErrClosed
	}
	kv, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := kv[key]; !ok {
		return nil
	}
	delete(kv, key)
	return s.save(kv)
}

func (s *FileStore) Close() error {
	s.closed = true
	return nil
}
