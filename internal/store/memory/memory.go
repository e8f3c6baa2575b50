// Package memory is a process-local KV, used by tests and by the
// "memory" backend when nothing should outlive the process.
package memory

import (
	"context"
	"sync"
)

type KV struct {
	mu    sync.Mutex
	items map[string][]byte
}

func New() *KV {
	return &KV{items: map[string][]byte{}}
}

func (s *KV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *KV) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *KV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *KV) Close() error { return nil }
