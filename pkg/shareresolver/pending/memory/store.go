package memory

import (
	"context"
	"sync"
)

// Store keeps pending paths in process memory, keyed by channel name
type Store struct {
	mu    sync.RWMutex
	paths map[string]string
}

// New creates a new in-memory pending store
func New() *Store {
	return &Store{
		paths: make(map[string]string),
	}
}

func (s *Store) Load(ctx context.Context, channel string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.paths[channel]
	return path, ok, nil
}

func (s *Store) Store(ctx context.Context, channel, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paths[channel] = path
	return nil
}

func (s *Store) Clear(ctx context.Context, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.paths, channel)
	return nil
}
