// Package session holds the ephemeral, process-wide record of the
// currently authenticated account. At most one account is authenticated
// at a time; nothing here survives a process restart.
package session

import (
	"sync"

	"github.com/dkurganov/localvault/internal/common"
)

// Session is the single-slot store of the current account identifier
// and its key text. The zero value is an empty (anonymous) session.
type Session struct {
	mu        sync.Mutex
	accountID string
	keyText   []byte
}

func New() *Session {
	return &Session{}
}

// Set commits credentials to the session, replacing any previous slot
// contents. The previous key material is wiped first.
func (s *Session) Set(accountID, keyText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	common.WipeByteArray(s.keyText)
	s.accountID = accountID
	s.keyText = []byte(keyText)
}

// Current returns the authenticated account's identifier and key text.
// ok is false while the session is anonymous.
func (s *Session) Current() (accountID, keyText string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountID == "" {
		return "", "", false
	}
	return s.accountID, string(s.keyText), true
}

// Clear empties the slot and wipes the held key material. Safe to call
// on an already-empty session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	common.WipeByteArray(s.keyText)
	s.accountID = ""
	s.keyText = nil
}
