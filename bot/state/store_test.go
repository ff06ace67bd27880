package state

import (
	"sync"
	"testing"
)

func TestMemoryStoreBasics(t *testing.T) {
	s := NewMemoryStore[string]()

	if _, ok := s.Get(1); ok {
		t.Fatalf("expected empty store")
	}

	s.Put(1, "a")
	s.Put(2, "b")
	if v, ok := s.Get(1); !ok || v != "a" {
		t.Fatalf("Get(1) = %q,%v", v, ok)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", s.Len())
	}

	s.Delete(1)
	if _, ok := s.Get(1); ok {
		t.Fatalf("expected key 1 deleted")
	}
	s.Delete(99)
}

func TestMemoryStoreUpdateKeepAndDrop(t *testing.T) {
	s := NewMemoryStore[[]int]()

	s.Update(5, func(cur []int, ok bool) ([]int, bool) {
		if ok {
			t.Fatalf("unexpected existing value")
		}
		return append(cur, 1), true
	})
	s.Update(5, func(cur []int, ok bool) ([]int, bool) {
		return append(cur, 2), true
	})
	if v, _ := s.Get(5); len(v) != 2 || v[0] != 1 || v[1] != 2 {
		t.Fatalf("unexpected value %v", v)
	}

	s.Update(5, func(cur []int, ok bool) ([]int, bool) {
		return nil, false
	})
	if _, ok := s.Get(5); ok {
		t.Fatalf("expected key removed when keep=false")
	}

	s.Update(5, nil)
}

func TestMemoryStoreUpdateIsAtomicPerKey(t *testing.T) {
	s := NewMemoryStore[int]()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(1, func(cur int, ok bool) (int, bool) {
				return cur + 1, true
			})
		}()
	}
	wg.Wait()

	if v, _ := s.Get(1); v != 100 {
		t.Fatalf("expected 100 increments, got %d", v)
	}
}
