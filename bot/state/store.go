// Package state holds per-user in-memory state keyed by Telegram user ID.
package state

import "sync"

// Store is a keyed value store. Update applies fn atomically for one key:
// fn receives the current value and whether it exists, and returns the next
// value and whether to keep it. Returning keep=false deletes the key.
type Store[V any] interface {
	Get(key int64) (V, bool)
	Put(key int64, value V)
	Delete(key int64)
	Update(key int64, fn func(current V, ok bool) (next V, keep bool))
	Len() int
}

// MemoryStore is a mutex-guarded map implementation of Store.
type MemoryStore[V any] struct {
	mu    sync.Mutex
	items map[int64]V
}

// NewMemoryStore creates an empty store.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{items: make(map[int64]V)}
}

func (s *MemoryStore[V]) Get(key int64) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *MemoryStore[V]) Put(key int64, value V) {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

func (s *MemoryStore[V]) Delete(key int64) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

func (s *MemoryStore[V]) Update(key int64, fn func(current V, ok bool) (V, bool)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[key]
	next, keep := fn(current, ok)
	if !keep {
		delete(s.items, key)
		return
	}
	s.items[key] = next
}

func (s *MemoryStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
