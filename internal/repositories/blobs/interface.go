// Package blobs persists the single encrypted data blob each account
// keeps in the vault. Rows are overwritten whole; there is no partial
// update.
package blobs

import "context"

// Record is the stored ciphertext for one account.
type Record struct {
	AccountID  string
	Ciphertext []byte
	Nonce      []byte
}

type Repository interface {
	// Get returns the blob for an account, or common.ErrorNotFound if
	// the account has never saved data.
	Get(ctx context.Context, accountID string) (*Record, error)

	// Put inserts or overwrites the blob for an account.
	Put(ctx context.Context, rec *Record) error
}
