// Package common defines shared constants and sentinel errors used across
// the localvault components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Directory errors. A taken profile name is a business outcome,
	// not an internal failure.
	ErrProfileExists = errors.New("profile name already taken")

	// Credential errors surfaced by the worker.
	ErrUnknownAccount   = errors.New("unknown account")
	ErrorUnauthorized   = errors.New("incorrect passphrase")
	ErrorInternal       = errors.New("internal error")
	ErrMalformedRequest = errors.New("malformed request")

	// Validation errors, detected before any I/O.
	ErrProfileNameTooShort = errors.New("profile name must be at least 2 characters long")
	ErrPassphraseTooShort  = errors.New("passphrase must be at least 12 characters long")
	ErrPassphraseMismatch  = errors.New("passphrase and confirmation do not match")

	// Orchestrator flow-control errors.
	ErrActionInFlight  = errors.New("another submission is still in flight")
	ErrUpgradeInFlight = errors.New("a credential upgrade is already in progress")
	ErrNotLoggedIn     = errors.New("not logged in")
)
