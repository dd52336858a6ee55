package kvstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps keys in process memory. Used by tests and the memory
// storage driver.
type MemoryStore struct {
	data   map[string][]byte
	expiry map[string]time.Time
	mu     sync.Mutex
	now    func() time.Time
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.data[key]
	if !exists {
		return nil, nil
	}

	if expTime, hasExpiry := s.expiry[key]; hasExpiry && s.now().After(expTime) {
		delete(s.data, key)
		delete(s.expiry, key)
		return nil, nil
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)
	s.data[key] = data

	if ttl > 0 {
		s.expiry[key] = s.now().Add(ttl)
	} else {
		delete(s.expiry, key)
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	delete(s.expiry, key)
	return nil
}
