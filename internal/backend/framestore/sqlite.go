package framestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteFrameStore keeps frames in a sqlite table. Expired rows are hidden
// from reads and pruned on every write.
type SQLiteFrameStore struct {
	db         *sql.DB
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewSQLiteFrameStore(connectionString string, maxEntries int, ttl time.Duration) (FrameStore, error) {
	store, err := newSQLiteFrameStore(connectionString, maxEntries, ttl, time.Now)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newSQLiteFrameStore(connectionString string, maxEntries int, ttl time.Duration, now func() time.Time) (*SQLiteFrameStore, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS frames (
		id TEXT PRIMARY KEY,
		png BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create frames table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS frames_created_at ON frames (created_at)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create frames index: %w", err)
	}

	return &SQLiteFrameStore{
		db:         db,
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        now,
	}, nil
}

func (s *SQLiteFrameStore) cutoff() int64 {
	return s.now().Add(-s.ttl).UnixNano()
}

func (s *SQLiteFrameStore) Put(ctx context.Context, id string, frame []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM frames WHERE created_at < ?", s.cutoff()); err != nil {
		return fmt.Errorf("failed to prune expired frames: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO frames (id, png, created_at) VALUES (?, ?, ?)",
		id, frame, s.now().UnixNano()); err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("failed to store frame %s: %w", id, ErrFrameExists)
		}
		return fmt.Errorf("failed to store frame %s: %w", id, err)
	}
	if s.maxEntries > 0 {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM frames WHERE id NOT IN (SELECT id FROM frames ORDER BY created_at DESC, rowid DESC LIMIT ?)",
			s.maxEntries); err != nil {
			return fmt.Errorf("failed to prune surplus frames: %w", err)
		}
	}
	return tx.Commit()
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// extended codes keep the primary code in the low byte
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func (s *SQLiteFrameStore) Get(ctx context.Context, id string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, "SELECT png FROM frames WHERE id = ? AND created_at >= ?", id, s.cutoff())
	var frame []byte
	if err := row.Scan(&frame); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFrameNotFound
		}
		return nil, fmt.Errorf("failed to load frame %s: %w", id, err)
	}
	return frame, nil
}

func (s *SQLiteFrameStore) Len(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM frames WHERE created_at >= ?", s.cutoff())
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteFrameStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
