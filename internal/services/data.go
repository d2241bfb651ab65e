// Package services contains the application services of localvault:
// the encrypted data store facade and the auth orchestrator that
// drives the credential worker.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkurganov/localvault/internal/common"
	"github.com/dkurganov/localvault/internal/cryptox"
	"github.com/dkurganov/localvault/internal/logging"
	"github.com/dkurganov/localvault/internal/repositories/blobs"
	"github.com/dkurganov/localvault/internal/session"
)

// DataService encrypts and decrypts the single data blob each account
// keeps in the vault. The session-implicit methods use the currently
// authenticated credentials; the WithKey variants take explicit ones,
// which the upgrade sequence needs before the session has adopted the
// new key.
type DataService interface {
	Get(ctx context.Context) (plaintext string, present bool, err error)
	GetWithKey(ctx context.Context, accountID, keyText string) (plaintext string, present bool, err error)
	Save(ctx context.Context, plaintext string) error
	SaveWithKey(ctx context.Context, plaintext, accountID, keyText string, upgrade bool) error
}

type dataService struct {
	blobs blobs.Repository
	sess  *session.Session
	log   logging.Logger
}

func NewDataService(blobs blobs.Repository, sess *session.Session, log logging.Logger) DataService {
	return &dataService{blobs: blobs, sess: sess, log: log.With("component", "data-service")}
}

func (s *dataService) Get(ctx context.Context) (string, bool, error) {
	accountID, keyText, ok := s.sess.Current()
	if !ok {
		return "", false, common.ErrNotLoggedIn
	}
	return s.GetWithKey(ctx, accountID, keyText)
}

func (s *dataService) GetWithKey(ctx context.Context, accountID, keyText string) (string, bool, error) {
	key, err := cryptox.DecodeKey(keyText)
	if err != nil {
		return "", false, err
	}
	defer common.WipeByteArray(key)

	rec, err := s.blobs.Get(ctx, accountID)
	if errors.Is(err, common.ErrorNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading blob: %w", err)
	}

	plaintext, err := cryptox.OpenBlob(rec.Ciphertext, rec.Nonce, key)
	if err != nil {
		return "", false, fmt.Errorf("decrypting blob: %w", err)
	}
	return string(plaintext), true, nil
}

func (s *dataService) Save(ctx context.Context, plaintext string) error {
	accountID, keyText, ok := s.sess.Current()
	if !ok {
		return common.ErrNotLoggedIn
	}
	return s.SaveWithKey(ctx, plaintext, accountID, keyText, false)
}

// SaveWithKey encrypts plaintext and overwrites the account's blob.
// The stored ciphertext is only touched after encryption succeeds.
// The upgrade flag marks a save that belongs to a credential-rotation
// sequence rather than a user-triggered one.
func (s *dataService) SaveWithKey(ctx context.Context, plaintext, accountID, keyText string, upgrade bool) error {
	key, err := cryptox.DecodeKey(keyText)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := cryptox.SealBlob([]byte(plaintext), key)
	if err != nil {
		return fmt.Errorf("encrypting blob: %w", err)
	}

	rec := &blobs.Record{AccountID: accountID, Ciphertext: ciphertext, Nonce: nonce}
	if err := s.blobs.Put(ctx, rec); err != nil {
		return fmt.Errorf("storing blob: %w", err)
	}

	s.log.Info(ctx, "data blob saved", "account_id", accountID, "upgrade", upgrade)
	return nil
}
