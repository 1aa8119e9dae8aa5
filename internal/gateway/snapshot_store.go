package gateway

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// SnapshotStore persists the learner's opaque state blob to a file. A
// missing file is a normal cold start, not an error.
type SnapshotStore struct {
	path   string
	logger *zap.Logger
}

// NewSnapshotStore creates a store at the given path.
func NewSnapshotStore(path string, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{path: path, logger: logger}
}

// Load returns the stored blob, or nil when no snapshot exists yet.
func (s *SnapshotStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("no learner snapshot found, cold start", zap.String("path", s.path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read learner snapshot %s: %w", s.path, err)
	}
	return data, nil
}

// Save atomically replaces the stored blob.
func (s *SnapshotStore) Save(blob []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("could not write learner snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("could not replace learner snapshot %s: %w", s.path, err)
	}
	return nil
}
