package services

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/Ryan-Har/vibesession/database"
	"github.com/Ryan-Har/vibesession/internal/kvstore"
	"github.com/Ryan-Har/vibesession/internal/logutil"
)

type Services struct {
	db     *sql.DB
	logger *slog.Logger
	Store  kvstore.Store
	dbType DBType
}

type DBType string

const (
	DBTypeSQLite   DBType = "sqlite"
	DBTypeInMemory DBType = "memory"
)

// New initializes and returns a Services struct with the storage backend
// selected by dbType.
//
// Params:
//   - db: a live database connection, ignored for DBTypeInMemory
//   - dbType: the storage backend holding the token and cached profiles
//   - logger: a slog.Logger pointer instance used for logging
//
// Example:
//
//	svc := New(db, DBTypeSQLite, logger)
func New(db *sql.DB, dbType DBType, logger *slog.Logger) *Services {
	svc := &Services{
		db:     db,
		logger: logutil.OrDiscard(logger),
		dbType: dbType,
	}

	switch dbType {
	case DBTypeSQLite:
		svc.Store = kvstore.NewSqlite(svc.logger, db)
	case DBTypeInMemory:
		svc.Store = kvstore.NewInMemory(svc.logger)
	}
	return svc
}

// Ping checks the database connection. The in-memory backend always succeeds.
func (s *Services) Ping() error {
	if s.dbType != DBTypeSQLite {
		return nil
	}
	if s.db == nil {
		return errors.New("no database configured")
	}
	return s.db.Ping()
}

func (s *Services) RunMigrations() error {
	switch s.dbType {
	case DBTypeSQLite:
		defer logutil.NewTimingLogger(s.logger, time.Now(), "ran database migrations")()
		return database.RunSqliteMigrations(s.db)
	case DBTypeInMemory:
		return nil
	default:
		return errors.New("unknown database type")
	}
}

// Close releases the storage backend. The *sql.DB stays open; it belongs to the caller.
func (s *Services) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
