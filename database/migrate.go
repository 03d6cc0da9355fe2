package database

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// Register the sqlite3 driver with database/sql
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// RunSqliteMigrations applies all pending schema migrations for the session storage
// to the provided SQLite database.
//
// Migrations are embedded from "migrations/sqlite" and applied through golang-migrate.
// An already up to date database is not an error.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite3", "./vibe.db")
//	if err := RunSqliteMigrations(db); err != nil {
//	    log.Fatalf("migration failed: %v", err)
//	}
func RunSqliteMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}

	source, err := iofs.New(sqliteMigrations, "migrations/sqlite")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
