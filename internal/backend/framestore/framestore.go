package framestore

import (
	"context"
	"errors"
	"time"
)

// ErrFrameNotFound is returned for unknown or expired frame identifiers
var ErrFrameNotFound = errors.New("frame not found")

// ErrFrameExists is returned when Put is called with an identifier that is still stored
var ErrFrameExists = errors.New("frame id already in use")

// FrameStore holds encoded frames by identifier. Entries are written once and
// never mutated; implementations evict them by age and/or count. Put never
// overwrites a live entry.
type FrameStore interface {
	Put(ctx context.Context, id string, frame []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	// Len reports the number of frames currently retrievable
	Len(ctx context.Context) (int, error)
	Close() error
}

// Options configures a frame store backend
type Options struct {
	Type             string
	ConnectionString string
	TTL              time.Duration
	MaxEntries       int
	KeyPrefix        string
}
