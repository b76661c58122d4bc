package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Storage = (*Storage)(nil)

// Storage is a mock implementation of sitecrawl.Storage.
type Storage struct {
	PutFn func(ctx context.Context, path string, data []byte) error
}

func (s *Storage) Put(ctx context.Context, path string, data []byte) error {
	return s.PutFn(ctx, path, data)
}

var _ sitecrawl.Storage = (*MemoryStorage)(nil)

// MemoryStorage is an in-memory sitecrawl.Storage that records every write
// in order. PutErr, when set, decides per path whether a write fails.
type MemoryStorage struct {
	PutErr func(path string) error

	mu     sync.Mutex
	writes []string
	data   map[string][]byte
}

// Put stores a copy of data under path.
func (s *MemoryStorage) Put(_ context.Context, path string, data []byte) error {
	if s.PutErr != nil {
		if err := s.PutErr(path); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.writes = append(s.writes, path)
	s.data[path] = append([]byte(nil), data...)
	return nil
}

// Get returns the bytes stored under path.
func (s *MemoryStorage) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[path]
	return data, ok
}

// Writes returns the paths written, in write order, including rewrites.
func (s *MemoryStorage) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

// Paths returns the distinct stored paths, sorted.
func (s *MemoryStorage) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.data))
	for p := range s.data {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
