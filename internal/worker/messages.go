// Package worker implements the credential worker: an isolated
// goroutine that derives, verifies, and regenerates master keys from
// passphrases. It owns the credential records; nothing else reads or
// writes them. All interaction crosses the boundary as copyable
// request/response messages; the worker shares no memory with its
// callers and never panics past the channel.
package worker

// CreateAuth asks the worker to derive fresh credentials for an
// account. With Regenerate set, the account must already have
// credentials; a brand-new derivation replaces them without needing
// the old key.
type CreateAuth struct {
	Password   string
	AccountID  string
	Regenerate bool
}

// CheckAuth asks the worker to verify a passphrase against the stored
// verification data and, on success, hand back the derived key.
type CheckAuth struct {
	Password  string
	AccountID string
}

// Request is one message to the worker. Exactly one of the payload
// fields is set. Token is echoed in the response so the caller can
// correlate it with the outstanding request.
type Request struct {
	Token      string
	CreateAuth *CreateAuth
	CheckAuth  *CheckAuth
}

// Response is the worker's answer. Either Login is true and the
// credential fields are populated, or Err carries the failure; the two
// are mutually exclusive.
type Response struct {
	Token string

	Login     bool
	AccountID string
	KeyText   string

	// UpgradePending is set by CheckAuth when the account's
	// credentials belong to a deprecated scheme. KeyText then holds
	// the key under the old scheme so existing ciphertext can still
	// be read before rotation.
	UpgradePending bool

	// AuthRegenerated is set on the response to a regenerating
	// CreateAuth; KeyText holds the new key.
	AuthRegenerated bool

	// CredentialsCreated is set on the response to a first-time
	// CreateAuth.
	CredentialsCreated bool

	Err string
}
