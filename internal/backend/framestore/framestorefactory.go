package framestore

import (
	"fmt"
	"log/slog"
)

const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
	TypeSQLite = "sqlite"
)

// NewFrameStore creates the backend named by options.Type
func NewFrameStore(options Options) (store FrameStore, err error) {
	if options.TTL <= 0 {
		return nil, fmt.Errorf("frame store ttl must be positive, got %s", options.TTL)
	}

	switch options.Type {
	case TypeMemory:
		store, err = NewMemoryFrameStore(options.MaxEntries, options.TTL)
	case TypeRedis:
		store, err = NewRedisFrameStore(options.ConnectionString, options.KeyPrefix, options.TTL)
	case TypeSQLite:
		store, err = NewSQLiteFrameStore(options.ConnectionString, options.MaxEntries, options.TTL)
	default:
		return nil, fmt.Errorf("unsupported frame store type: %s", options.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s frame store: %w", options.Type, err)
	}

	slog.Info("frame store initialized",
		"type", options.Type,
		"ttl", options.TTL.String(),
		"max_entries", options.MaxEntries)
	return store, nil
}
