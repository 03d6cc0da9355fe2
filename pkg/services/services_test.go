package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestNew_InMemory(t *testing.T) {
	svc := New(nil, DBTypeInMemory, nil)
	require.NotNil(t, svc.Store)
	require.NoError(t, svc.Ping())
	require.NoError(t, svc.RunMigrations())
	require.NoError(t, svc.Close())
}

func TestNew_Sqlite(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	defer db.Close()

	svc := New(db, DBTypeSQLite, nil)
	require.NoError(t, svc.Ping())
	require.NoError(t, svc.RunMigrations())
	// second run finds nothing to apply
	require.NoError(t, svc.RunMigrations())

	ctx := context.Background()
	require.NoError(t, svc.Store.Set(ctx, "token", "tok12345678"))
	v, ok, err := svc.Store.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok12345678", v)

	require.NoError(t, svc.Close())
	require.NoError(t, db.Ping())
}

func TestUnknownDBType(t *testing.T) {
	svc := New(nil, DBType("postgres"), nil)
	require.Nil(t, svc.Store)
	require.Error(t, svc.RunMigrations())
	require.NoError(t, svc.Close())
}
