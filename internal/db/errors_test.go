package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestWrapErrorIfBusy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantBusy bool
	}{
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"locked", sqlite3.Error{Code: sqlite3.ErrLocked}, true},
		{"wrapped busy", fmt.Errorf("exec: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), true},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			busy, err := WrapErrorIfBusy(tt.err)
			require.Equal(t, tt.wantBusy, busy)
			require.Equal(t, tt.wantBusy, IsBusy(err))
			require.ErrorIs(t, err, tt.err)
		})
	}
}
