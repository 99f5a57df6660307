// Package memory implements the slice store in process memory, optionally
// seeded from a directory of JSON files. It backs tests and sessions that do
// not need durability.
package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"budgetflow/internal/core"
)

type Store struct {
	mu     sync.Mutex
	slices map[core.Slice][]byte
}

func New() *Store {
	return &Store{slices: make(map[core.Slice][]byte)}
}

// NewFromDir seeds the store from base/<slice>.json for every slice file
// present. Missing files simply leave the slice absent.
func NewFromDir(base string) *Store {
	s := New()
	for _, slice := range core.AllSlices {
		data, err := os.ReadFile(filepath.Join(base, string(slice)+".json"))
		if err != nil {
			continue
		}
		s.slices[slice] = data
	}
	return s
}

func (s *Store) Read(_ context.Context, slice core.Slice) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slices[slice]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Write(_ context.Context, slice core.Slice, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.slices[slice] = stored
	return nil
}

func (s *Store) Close() error { return nil }
