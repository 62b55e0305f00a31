package narrativecache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryStore is an in-process LRU store whose entries expire after a TTL.
type MemoryStore struct {
	entries *lru.Cache[string, memoryEntry]
	ttl     time.Duration
	clock   clockwork.Clock
}

// NewMemoryStore creates a store holding at most maxEntries narratives.
func NewMemoryStore(maxEntries int, ttl time.Duration) (*MemoryStore, error) {
	return newMemoryStore(maxEntries, ttl, clockwork.NewRealClock())
}

func newMemoryStore(maxEntries int, ttl time.Duration, clock clockwork.Clock) (*MemoryStore, error) {
	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create narrative lru: %w", err)
	}
	return &MemoryStore{entries: entries, ttl: ttl, clock: clock}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return "", false, nil
	}
	if !s.clock.Now().Before(e.expires) {
		s.entries.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.entries.Add(key, memoryEntry{value: value, expires: s.clock.Now().Add(s.ttl)})
	return nil
}

// Len reports the number of entries, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
