// Package credentials persists the per-account credential-verification
// records owned by the credential worker: salt, verifier, and the
// derivation scheme. Master keys are never stored here.
package credentials

import (
	"context"

	"github.com/dkurganov/localvault/internal/cryptox"
)

// Record is the stored verification data for one account.
type Record struct {
	AccountID string
	Salt      []byte
	Verifier  []byte
	Scheme    cryptox.Scheme
}

type Repository interface {
	// Get returns the credential record for an account, or
	// common.ErrorNotFound if none exists.
	Get(ctx context.Context, accountID string) (*Record, error)

	// Put inserts or overwrites the credential record for an account.
	Put(ctx context.Context, rec *Record) error
}
