// Package cryptox implements the key-derivation schemes and the blob
// cipher used by localvault. The orchestrator never calls into this
// package directly; it is exercised by the credential worker and the
// encrypted data store, so KDF parameters can change without touching
// the auth flow.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dkurganov/localvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// Scheme identifies a key-derivation parameter set. Accounts remember
// the scheme their credentials were derived under; anything older than
// SchemeCurrent is upgraded on next login.
type Scheme int

const (
	// SchemeLegacy is the original derivation. Kept only so existing
	// credentials can be verified and their data read before rotation.
	SchemeLegacy Scheme = 1

	// SchemeCurrent is used for every new or regenerated credential.
	SchemeCurrent Scheme = 2
)

const (
	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32

	// SaltSize is the per-account random salt length in bytes.
	SaltSize = 32

	nonceSize = 12
)

// Deprecated reports whether credentials derived under s must be
// regenerated under SchemeCurrent.
func (s Scheme) Deprecated() bool {
	return s < SchemeCurrent
}

// DeriveMasterKey derives a KeySize-byte master key from a passphrase and
// salt using the argon2id parameters of the given scheme.
func DeriveMasterKey(password, salt []byte, scheme Scheme) ([]byte, error) {
	switch scheme {
	case SchemeLegacy:
		return argon2.IDKey(password, salt, 1, 19*1024, 1, KeySize), nil
	case SchemeCurrent:
		return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize), nil
	default:
		return nil, fmt.Errorf("unknown derivation scheme %d", scheme)
	}
}

// MakeVerifier computes the stored verification value for a master key.
// The verifier is safe to persist; the key itself never is.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// EncodeKey renders a master key as the opaque key text carried in
// worker responses and session state.
func EncodeKey(masterKey []byte) string {
	return hex.EncodeToString(masterKey)
}

// DecodeKey parses key text back into raw key bytes. The caller should
// wipe the result when done.
func DecodeKey(keyText string) ([]byte, error) {
	key, err := hex.DecodeString(keyText)
	if err != nil {
		return nil, fmt.Errorf("malformed key text: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("malformed key text: expected %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// SealBlob encrypts plaintext with AES-GCM under the given key.
// A fresh random nonce is generated per call and returned alongside
// the ciphertext.
func SealBlob(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(nonceSize)
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// OpenBlob decrypts a ciphertext produced by SealBlob. It fails if the
// key or nonce does not match, or the ciphertext was tampered with.
func OpenBlob(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
