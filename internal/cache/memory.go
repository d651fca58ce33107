package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	createdAt time.Time
}

type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[Partition]map[string]*entry
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[Partition]map[string]*entry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go s.cleanup(cleanupInterval(ttl))

	return s
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return time.Minute
	}
	return ttl
}

func (s *MemoryStore) Get(ctx context.Context, key Key) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key.Partition][key.Scope]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}

	if time.Since(e.createdAt) > s.ttl {
		s.mu.Lock()
		if cur, still := s.entries[key.Partition][key.Scope]; still && cur == e {
			delete(s.entries[key.Partition], key.Scope)
		}
		s.mu.Unlock()
		return nil, ErrMiss
	}

	return e.value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.entries[key.Partition]
	if !ok {
		part = make(map[string]*entry)
		s.entries[key.Partition] = part
	}
	part[key.Scope] = &entry{value: value, createdAt: time.Now()}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries[key.Partition], key.Scope)
	return nil
}

func (s *MemoryStore) DeletePartition(ctx context.Context, p Partition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, p)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[Partition]map[string]*entry)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, part := range s.entries {
		n += len(part)
	}
	return n
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for p, part := range s.entries {
				for scope, e := range part {
					if time.Since(e.createdAt) > s.ttl {
						delete(part, scope)
					}
				}
				if len(part) == 0 {
					delete(s.entries, p)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}
