package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/lite-lake/tenten-ddns/internal/domain/entity"
)

var (
	ErrStateReadFailed  = errors.New("state read failed")
	ErrStateWriteFailed = errors.New("state write failed")
)

type FileStore struct {
	path  string
	flock *flock.Flock
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:  path,
		flock: flock.New(path + ".lock"),
	}
}

func (s *FileStore) Load(ctx context.Context) (*entity.RunRecord, error) {
	if err := s.flock.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	defer s.flock.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state file %s: %w", s.path, errors.Join(ErrStateReadFailed, err))
	}

	var rec entity.RunRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", s.path, errors.Join(ErrStateReadFailed, err))
	}
	return &rec, nil
}

func (s *FileStore) Save(ctx context.Context, record *entity.RunRecord) error {
	if err := s.flock.Lock(); err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer s.flock.Unlock()

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling state for %s: %w", s.path, errors.Join(ErrStateWriteFailed, err))
	}

	tmpPath := filepath.Join(filepath.Dir(s.path), "."+filepath.Base(s.path)+".tmp")
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp state file %s: %w", tmpPath, errors.Join(ErrStateWriteFailed, err))
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming state file from %s to %s: %w", tmpPath, s.path, errors.Join(ErrStateWriteFailed, err))
	}
	return nil
}
