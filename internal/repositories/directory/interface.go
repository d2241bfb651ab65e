// Package directory persists the profile/account directory: the
// user-facing profile names and the opaque account identifiers backing
// them. The two tables are always written together.
package directory

import "context"

// ProfileEntry is one row of the profile listing.
type ProfileEntry struct {
	Name      string
	AccountID string
}

// Account is the metadata record keyed by account identifier.
type Account struct {
	AccountID   string
	ProfileName string
}

type Repository interface {
	// ListProfiles returns all profiles ordered by name ascending.
	// An uninitialized directory yields an empty slice, not an error.
	ListProfiles(ctx context.Context) ([]ProfileEntry, error)

	// Reserve claims a profile name for an account. Both the
	// name→account and account→metadata rows are written in a single
	// transaction. Returns common.ErrProfileExists when the name is
	// already taken.
	Reserve(ctx context.Context, name, accountID string) error

	// Release undoes a reservation, removing both rows. Releasing a
	// name that is not reserved is a no-op.
	Release(ctx context.Context, name, accountID string) error

	// GetAccount resolves an account identifier to its metadata.
	// Returns common.ErrorNotFound for unknown identifiers.
	GetAccount(ctx context.Context, accountID string) (*Account, error)
}
