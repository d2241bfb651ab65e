package directory

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dkurganov/localvault/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE profiles (
  name       TEXT PRIMARY KEY,
  account_id TEXT NOT NULL UNIQUE
);
CREATE TABLE accounts (
  account_id   TEXT PRIMARY KEY,
  profile_name TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestListProfiles_EmptyDirectory(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	list, err := r.ListProfiles(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestReserve_DistinctNames(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Reserve(ctx, "alice", "acc-1"))
	require.NoError(t, r.Reserve(ctx, "bob", "acc-2"))

	list, err := r.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Name)
	assert.Equal(t, "acc-1", list[0].AccountID)
	assert.Equal(t, "bob", list[1].Name)
	assert.Equal(t, "acc-2", list[1].AccountID)
}

func TestReserve_DuplicateNameFailsWithoutMutation(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Reserve(ctx, "alice", "acc-1"))

	err := r.Reserve(ctx, "alice", "acc-2")
	require.ErrorIs(t, err, common.ErrProfileExists)

	// The losing reservation must leave no trace in either table.
	list, err := r.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "acc-1", list[0].AccountID)

	_, err = r.GetAccount(ctx, "acc-2")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListProfiles_LexicographicOrder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Reserve(ctx, "zeta", "acc-z"))
	require.NoError(t, r.Reserve(ctx, "Alpha", "acc-A"))
	require.NoError(t, r.Reserve(ctx, "alpha", "acc-a"))

	list, err := r.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "alpha", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
}

func TestGetAccount_ResolvesProfileName(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Reserve(ctx, "alice", "acc-1"))

	a, err := r.GetAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.ProfileName)
}

func TestRelease_FreesName(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Reserve(ctx, "alice", "acc-1"))
	require.NoError(t, r.Release(ctx, "alice", "acc-1"))

	// Name is reusable after release.
	require.NoError(t, r.Reserve(ctx, "alice", "acc-2"))

	_, err := r.GetAccount(ctx, "acc-1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRelease_UnknownNameIsNoOp(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	require.NoError(t, r.Release(context.Background(), "ghost", "acc-x"))
}
