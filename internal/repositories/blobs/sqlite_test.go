package blobs

import (
	"context"
	"database/sql"
	"testing"

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
CREATE TABLE vault_blobs (
  account_id TEXT PRIMARY KEY,
  ciphertext BLOB NOT NULL,
  nonce      BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestPutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	rec := &Record{AccountID: "acc-1", Ciphertext: []byte{0xDE, 0xAD}, Nonce: []byte{0x01}}
	require.NoError(t, r.Put(ctx, rec))

	got, err := r.Get(ctx, "acc-1")
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestGet_AbsentUntilFirstSave(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "acc-1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPut_OverwritesWholeBlob(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &Record{AccountID: "acc-1", Ciphertext: []byte("old"), Nonce: []byte("n1")}))
	require.NoError(t, r.Put(ctx, &Record{AccountID: "acc-1", Ciphertext: []byte("new"), Nonce: []byte("n2")}))

	got, err := r.Get(ctx, "acc-1")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got.Ciphertext)
	require.Equal(t, []byte("n2"), got.Nonce)
}
