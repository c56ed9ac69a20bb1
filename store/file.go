package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"git.fiblab.net/sim/autoownership/ownership"
)

// FileStore keeps households as a JSON array.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]*ownership.Household, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read households %s: %w", s.path, err)
	}
	var households []*ownership.Household
	if err := json.Unmarshal(data, &households); err != nil {
		return nil, fmt.Errorf("parse households %s: %w", s.path, err)
	}
	if err := checkUnique(households); err != nil {
		return nil, err
	}
	log.Infof("loaded %d households from %s", len(households), s.path)
	return households, nil
}

// Save rewrites the whole file through a temporary file in the same
// directory.
func (s *FileStore) Save(ctx context.Context, households []*ownership.Household) error {
	data, err := json.MarshalIndent(households, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write households %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write households %s: %w", s.path, err)
	}
	log.Infof("saved %d households to %s", len(households), s.path)
	return nil
}

func (s *FileStore) Close(context.Context) error {
	return nil
}
