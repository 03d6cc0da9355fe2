package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Ryan-Har/vibesession/internal/db"
	"github.com/Ryan-Har/vibesession/internal/logutil"
	"github.com/Ryan-Har/vibesession/pkg/models"
)

// sqliteStore keeps entries in the kv_entries table created by database.RunSqliteMigrations.
// The *sql.DB is owned by the caller; Close only stops this store from using it.
type sqliteStore struct {
	*baseStore
	db     *sql.DB
	closed atomic.Bool
}

// NewSqlite returns a Store backed by the given SQLite database.
func NewSqlite(logger *slog.Logger, db *sql.DB) *sqliteStore {
	return &sqliteStore{
		baseStore: newBase(logger),
		db:        db,
	}
}

const (
	getEntryQuery = `SELECT value FROM kv_entries WHERE key = ?`

	upsertEntryQuery = `INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	deleteEntryQuery = `DELETE FROM kv_entries WHERE key = ?`

	// substr avoids having to escape LIKE wildcards in caller supplied prefixes
	deletePrefixQuery = `DELETE FROM kv_entries WHERE substr(key, 1, ?) = ?`

	listKeysQuery = `SELECT key FROM kv_entries WHERE substr(key, 1, ?) = ? ORDER BY key`
)

func (s *sqliteStore) Get(ctx context.Context, key string) (string, bool, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "get kv entry")()

	if err := s.ready(ctx, "get"); err != nil {
		return "", false, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, getEntryQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, logutil.DebugAndWrapErr(s.log, "failed to get kv entry",
			models.NewStorageError("get", err), "key", key)
	}
	return value, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "set kv entry")()

	if err := s.ready(ctx, "set"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, upsertEntryQuery, key, value, time.Now().Unix()); err != nil {
		busy, err := db.WrapErrorIfBusy(err)
		return logutil.LogAndWrapErr(s.log, "failed to set kv entry",
			models.NewStorageError("set", err), "key", key, "busy", busy)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "delete kv entry")()

	if err := s.ready(ctx, "delete"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, deleteEntryQuery, key); err != nil {
		busy, err := db.WrapErrorIfBusy(err)
		return logutil.LogAndWrapErr(s.log, "failed to delete kv entry",
			models.NewStorageError("delete", err), "key", key, "busy", busy)
	}
	return nil
}

func (s *sqliteStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "delete kv prefix", "prefix", prefix)()

	if err := s.ready(ctx, "delete prefix"); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, deletePrefixQuery, len(prefix), prefix)
	if err != nil {
		_, err = db.WrapErrorIfBusy(err)
		return 0, logutil.LogAndWrapErr(s.log, "failed to delete kv entries by prefix",
			models.NewStorageError("delete prefix", err), "prefix", prefix)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, logutil.LogAndWrapErr(s.log, "failed to count deleted kv entries",
			models.NewStorageError("delete prefix", err), "prefix", prefix)
	}
	return int(n), nil
}

func (s *sqliteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "list kv keys", "prefix", prefix)()

	if err := s.ready(ctx, "keys"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, listKeysQuery, len(prefix), prefix)
	if err != nil {
		return nil, logutil.LogAndWrapErr(s.log, "failed to list kv keys",
			models.NewStorageError("keys", err), "prefix", prefix)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, logutil.LogAndWrapErr(s.log, "failed to scan kv key",
				models.NewStorageError("keys", err))
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, logutil.LogAndWrapErr(s.log, "failed to iterate kv keys",
			models.NewStorageError("keys", err))
	}
	return keys, nil
}

func (s *sqliteStore) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *sqliteStore) ready(ctx context.Context, op string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.checkContext(ctx, op)
}
