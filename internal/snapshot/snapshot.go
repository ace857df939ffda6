/*
Package snapshot persists the last observed set of trade records between
monitoring cycles as a single JSON document, fully replaced on every save.
*/
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"capitol-monitor/internal/logger"
	"capitol-monitor/internal/types"
)

// Store owns the durable copy of the snapshot between cycles.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path. The file is not
// touched until the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored snapshot. A missing file is a first run, not an
// error: it returns an empty snapshot. An unreadable or corrupt file is
// treated the same way, since the worst outcome is one duplicate report.
func (s *Store) Load(ctx context.Context) types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info(ctx, "No prior snapshot, starting fresh", "path", s.path)
			return types.Snapshot{}
		}
		logger.Warn(ctx, "Snapshot unreadable, starting fresh", "path", s.path, "error", err)
		return types.Snapshot{}
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn(ctx, "Snapshot corrupt, starting fresh", "path", s.path, "error", err)
		return types.Snapshot{}
	}

	logger.Debug(ctx, "Loaded prior snapshot", "path", s.path, "records", len(snap))
	return snap
}

// Save replaces the stored snapshot. The write goes through a temp file
// and rename so a crash mid-write cannot leave a truncated document.
func (s *Store) Save(ctx context.Context, snap types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	logger.Info(ctx, "Snapshot saved", "path", s.path, "records", len(snap))
	return nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}
