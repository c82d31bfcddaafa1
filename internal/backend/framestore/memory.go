package framestore

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/cache"
)

// MemoryFrameStore keeps frames in process memory, evicting the least recently
// used entry beyond maxEntries and any entry older than ttl.
type MemoryFrameStore struct {
	cache *cache.LRUExpireCache
	ttl   time.Duration
}

func NewMemoryFrameStore(maxEntries int, ttl time.Duration) (FrameStore, error) {
	store, err := newMemoryFrameStore(maxEntries, ttl, nil)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newMemoryFrameStore(maxEntries int, ttl time.Duration, clock cache.Clock) (*MemoryFrameStore, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("maxEntries must be positive for the memory store, got %d", maxEntries)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	lru := cache.NewLRUExpireCache(maxEntries)
	if clock != nil {
		lru = cache.NewLRUExpireCacheWithClock(maxEntries, clock)
	}
	return &MemoryFrameStore{
		cache: lru,
		ttl:   ttl,
	}, nil
}

func (s *MemoryFrameStore) Put(ctx context.Context, id string, frame []byte) error {
	if _, ok := s.cache.Get(id); ok {
		return fmt.Errorf("failed to store frame %s: %w", id, ErrFrameExists)
	}
	s.cache.Add(id, frame, s.ttl)
	return nil
}

func (s *MemoryFrameStore) Get(ctx context.Context, id string) ([]byte, error) {
	value, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrFrameNotFound
	}
	frame, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected value type %T for frame %s", value, id)
	}
	return frame, nil
}

func (s *MemoryFrameStore) Len(ctx context.Context) (int, error) {
	return len(s.cache.Keys()), nil
}

func (s *MemoryFrameStore) Close() error {
	for _, key := range s.cache.Keys() {
		s.cache.Remove(key)
	}
	return nil
}
