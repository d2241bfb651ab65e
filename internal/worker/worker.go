package worker

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dkurganov/localvault/internal/common"
	"github.com/dkurganov/localvault/internal/cryptox"
	"github.com/dkurganov/localvault/internal/logging"
	"github.com/dkurganov/localvault/internal/repositories/credentials"
)

// Worker processes credential requests one at a time. Create it with
// New, start it with Run in its own goroutine, and talk to it only
// through Requests and Responses.
type Worker struct {
	creds     credentials.Repository
	log       logging.Logger
	requests  chan Request
	responses chan Response
}

func New(creds credentials.Repository, log logging.Logger) *Worker {
	return &Worker{
		creds:     creds,
		log:       log.With("component", "credential-worker"),
		requests:  make(chan Request, 1),
		responses: make(chan Response, 1),
	}
}

// Requests is the send side of the worker's mailbox.
func (w *Worker) Requests() chan<- Request {
	return w.requests
}

// Responses delivers one response per received request, in order.
func (w *Worker) Responses() <-chan Response {
	return w.responses
}

// Run serves requests until ctx is cancelled. Every failure, including
// a panic in a handler, is converted into an error-shaped response;
// nothing escapes the message boundary.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			resp := w.serve(ctx, req)
			select {
			case w.responses <- resp:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Worker) serve(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if p := recover(); p != nil {
			w.log.Error(ctx, "handler panic", "panic", p)
			resp = Response{Token: req.Token, Err: common.ErrorInternal.Error()}
		}
	}()

	switch {
	case req.CreateAuth != nil:
		return w.createAuth(ctx, req.Token, req.CreateAuth)
	case req.CheckAuth != nil:
		return w.checkAuth(ctx, req.Token, req.CheckAuth)
	default:
		return Response{Token: req.Token, Err: common.ErrMalformedRequest.Error()}
	}
}

// createAuth derives fresh key material under the current scheme and
// stores the new verification record. It covers both first-time
// creation and regeneration; regeneration requires an existing record
// but not the old key.
func (w *Worker) createAuth(ctx context.Context, token string, msg *CreateAuth) Response {
	if msg.Password == "" || msg.AccountID == "" {
		return Response{Token: token, Err: common.ErrMalformedRequest.Error()}
	}

	if msg.Regenerate {
		if _, err := w.creds.Get(ctx, msg.AccountID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return Response{Token: token, Err: common.ErrUnknownAccount.Error()}
			}
			w.log.Error(ctx, "credential lookup failed", "error", err)
			return Response{Token: token, Err: common.ErrorInternal.Error()}
		}
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key, err := cryptox.DeriveMasterKey([]byte(msg.Password), salt, cryptox.SchemeCurrent)
	if err != nil {
		return Response{Token: token, Err: common.ErrorInternal.Error()}
	}
	defer common.WipeByteArray(key)

	rec := &credentials.Record{
		AccountID: msg.AccountID,
		Salt:      salt,
		Verifier:  cryptox.MakeVerifier(key),
		Scheme:    cryptox.SchemeCurrent,
	}
	if err := w.creds.Put(ctx, rec); err != nil {
		w.log.Error(ctx, "credential store failed", "error", err)
		return Response{Token: token, Err: fmt.Sprintf("storing credentials: %v", common.ErrorInternal)}
	}

	w.log.Debug(ctx, "credentials derived", "account_id", msg.AccountID, "regenerated", msg.Regenerate)

	return Response{
		Token:              token,
		Login:              true,
		AccountID:          msg.AccountID,
		KeyText:            cryptox.EncodeKey(key),
		AuthRegenerated:    msg.Regenerate,
		CredentialsCreated: !msg.Regenerate,
	}
}

// checkAuth verifies a passphrase against the stored record, deriving
// under whatever scheme the record was created with. A record on a
// deprecated scheme flags UpgradePending so the caller can read
// existing ciphertext before rotating.
func (w *Worker) checkAuth(ctx context.Context, token string, msg *CheckAuth) Response {
	if msg.Password == "" || msg.AccountID == "" {
		return Response{Token: token, Err: common.ErrMalformedRequest.Error()}
	}

	rec, err := w.creds.Get(ctx, msg.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Response{Token: token, Err: common.ErrUnknownAccount.Error()}
		}
		w.log.Error(ctx, "credential lookup failed", "error", err)
		return Response{Token: token, Err: common.ErrorInternal.Error()}
	}

	key, err := cryptox.DeriveMasterKey([]byte(msg.Password), rec.Salt, rec.Scheme)
	if err != nil {
		return Response{Token: token, Err: common.ErrorInternal.Error()}
	}
	defer common.WipeByteArray(key)

	if subtle.ConstantTimeCompare(rec.Verifier, cryptox.MakeVerifier(key)) == 0 {
		return Response{Token: token, Err: common.ErrorUnauthorized.Error()}
	}

	return Response{
		Token:          token,
		Login:          true,
		AccountID:      msg.AccountID,
		KeyText:        cryptox.EncodeKey(key),
		UpgradePending: rec.Scheme.Deprecated(),
	}
}
