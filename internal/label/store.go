package label

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vaultwatch/internal/model"
)

// Store holds the full marketId -> MarketLabel mapping and its JSON snapshot
// file. The snapshot is namespaced by the vault's display name, loaded once
// at startup, and rewritten wholesale on every insert. Entries are never
// deleted or invalidated.
type Store struct {
	path string

	mu     sync.Mutex
	labels map[string]model.MarketLabel
}

// NewStore builds a store whose snapshot lives under dir.
func NewStore(dir, vaultName string) *Store {
	return &Store{
		path:   filepath.Join(dir, vaultName+" marketData.json"),
		labels: make(map[string]model.MarketLabel),
	}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot file. A missing file leaves the store empty and is
// not an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read market data: %w", err)
	}

	labels := make(map[string]model.MarketLabel)
	if err := json.Unmarshal(data, &labels); err != nil {
		return fmt.Errorf("parse market data: %w", err)
	}

	s.mu.Lock()
	s.labels = labels
	s.mu.Unlock()
	return nil
}

// Get returns the cached label for a market id.
func (s *Store) Get(marketID string) (model.MarketLabel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	label, ok := s.labels[marketID]
	return label, ok
}

// Len returns the number of cached labels.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.labels)
}

// Put inserts a label and rewrites the whole snapshot file.
func (s *Store) Put(label model.MarketLabel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.labels[label.MarketID] = label
	return s.save()
}

func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create market data dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.labels, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal market data: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write market data tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename market data: %w", err)
	}

	return nil
}
