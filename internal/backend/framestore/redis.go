package framestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "frame:"

// RedisFrameStore keeps frames in redis with a per-key expiry
type RedisFrameStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisFrameStore connects using a redis:// URL and verifies the connection
func NewRedisFrameStore(connectionString, keyPrefix string, ttl time.Duration) (FrameStore, error) {
	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &RedisFrameStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}, nil
}

func (s *RedisFrameStore) key(id string) string {
	return s.keyPrefix + id
}

func (s *RedisFrameStore) Put(ctx context.Context, id string, frame []byte) error {
	stored, err := s.client.SetNX(ctx, s.key(id), frame, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store frame %s: %w", id, err)
	}
	if !stored {
		return fmt.Errorf("failed to store frame %s: %w", id, ErrFrameExists)
	}
	return nil
}

func (s *RedisFrameStore) Get(ctx context.Context, id string) ([]byte, error) {
	frame, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrFrameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load frame %s: %w", id, err)
	}
	return frame, nil
}

// Len walks the key prefix with SCAN; its cost grows with the number of live frames
func (s *RedisFrameStore) Len(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}

func (s *RedisFrameStore) Close() error {
	return s.client.Close()
}
