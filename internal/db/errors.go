package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// BusyError represents a write refused because another connection holds the database lock
type BusyError struct {
	Code sqlite3.ErrNo // sqlite3.ErrBusy or sqlite3.ErrLocked
	err  error         // The underlying database error
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("database is busy: %s", e.Code.Error())
}

// Unwrap returns the underlying error for error chain support
func (e *BusyError) Unwrap() error {
	return e.err
}

// NewBusyError creates a new BusyError
func NewBusyError(code sqlite3.ErrNo, err error) error {
	return &BusyError{
		Code: code,
		err:  err,
	}
}

// WrapErrorIfBusy wraps SQLite busy and locked failures in a BusyError. Other errors
// are returned unchanged.
func WrapErrorIfBusy(err error) (bool, error) {
	var sqliteErr sqlite3.Error
	switch {
	case errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked):
		return true, NewBusyError(sqliteErr.Code, err)
	default:
		return false, err
	}
}

// IsBusy reports whether err is, or wraps, a BusyError.
func IsBusy(err error) bool {
	var be *BusyError
	return errors.As(err, &be)
}
