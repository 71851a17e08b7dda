package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps each family's annotations in
// "<dir>/<family>.annotations.json".
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the directory if needed. An empty dir means
// "annotations" in the working directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "annotations"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create annotations dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the annotation files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(familyID string) string {
	return filepath.Join(s.dir, familyID+".annotations.json")
}

func (s *FileStore) Load(ctx context.Context, familyID string) (*Annotations, error) {
	if err := checkFamilyID(familyID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(familyID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read annotations: %w", err)
	}

	a := New(familyID)
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("parse annotations %s: %w", familyID, err)
	}
	a.FamilyID = familyID
	return a, nil
}

func (s *FileStore) Save(ctx context.Context, familyID string, a *Annotations) error {
	if err := checkFamilyID(familyID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := *a
	out.FamilyID = familyID
	out.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal annotations: %w", err)
	}

	path := s.path(familyID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write annotations: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, familyID string) error {
	if err := checkFamilyID(familyID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(familyID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove annotations: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
