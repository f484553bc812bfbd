package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

type record struct {
	Offset int `json:"offset"`
}

// FileStore keeps the record as {"offset": N} in a single JSON file,
// replaced atomically on every write.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Offset() (int, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return 0, err
	}
	return rec.Offset, nil
}

func (s *FileStore) SetOffset(n int) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(record{Offset: n})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "date_offset-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.Path)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) Close() error { return nil }
