package framestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T, maxEntries int, now func() time.Time) *SQLiteFrameStore {
	t.Helper()
	store, err := newSQLiteFrameStore(":memory:", maxEntries, time.Minute, now)
	if err != nil {
		t.Fatalf("newSQLiteFrameStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteFrameStore_PutGet(t *testing.T) {
	store := newTestSQLiteStore(t, 0, time.Now)
	ctx := context.Background()

	if err := store.Put(ctx, "id-1", []byte{0x01, 0x02}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := store.Get(ctx, "id-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02}) {
		t.Errorf("unexpected frame bytes: %v", got)
	}
	if _, err := store.Get(ctx, "id-2"); !errors.Is(err, ErrFrameNotFound) {
		t.Errorf("expected ErrFrameNotFound, got %v", err)
	}
}

func TestSQLiteFrameStore_Expiry(t *testing.T) {
	now := time.Unix(5000, 0)
	store := newTestSQLiteStore(t, 0, func() time.Time { return now })
	ctx := context.Background()

	_ = store.Put(ctx, "old", []byte("old"))
	now = now.Add(2 * time.Minute)

	if _, err := store.Get(ctx, "old"); !errors.Is(err, ErrFrameNotFound) {
		t.Fatalf("expected expired frame to be hidden, got %v", err)
	}

	// the next write prunes the expired row
	_ = store.Put(ctx, "new", []byte("new"))
	var rows int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM frames").Scan(&rows); err != nil {
		t.Fatalf("count error: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 stored row after pruning, got %d", rows)
	}
	if n, _ := store.Len(ctx); n != 1 {
		t.Errorf("expected Len 1, got %d", n)
	}
}

func TestSQLiteFrameStore_MaxEntriesKeepsNewest(t *testing.T) {
	now := time.Unix(5000, 0)
	store := newTestSQLiteStore(t, 3, func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		now = now.Add(time.Second)
		if err := store.Put(ctx, fmt.Sprintf("f%d", i), []byte{byte(i)}); err != nil {
			t.Fatalf("Put #%d error: %v", i, err)
		}
	}

	if n, _ := store.Len(ctx); n != 3 {
		t.Fatalf("expected 3 frames, got %d", n)
	}
	for _, id := range []string{"f0", "f1"} {
		if _, err := store.Get(ctx, id); !errors.Is(err, ErrFrameNotFound) {
			t.Errorf("expected %s to be pruned, got %v", id, err)
		}
	}
	for _, id := range []string{"f2", "f3", "f4"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("expected %s to be kept, got %v", id, err)
		}
	}
}

func TestSQLiteFrameStore_RefusesLiveID(t *testing.T) {
	assertRefusesLiveID(t, newTestSQLiteStore(t, 0, time.Now))
}

func TestSQLiteFrameStore_ReusesExpiredID(t *testing.T) {
	now := time.Unix(9000, 0)
	store := newTestSQLiteStore(t, 0, func() time.Time { return now })
	ctx := context.Background()

	if err := store.Put(ctx, "old", []byte("v1")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if err := store.Put(ctx, "old", []byte("v2")); err != nil {
		t.Fatalf("expected expired id to be reusable, got %v", err)
	}
	got, err := store.Get(ctx, "old")
	if err != nil || string(got) != "v2" {
		t.Errorf("expected v2, got %q (%v)", got, err)
	}
}
