package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dkurganov/localvault/internal/common"
	"github.com/dkurganov/localvault/internal/logging"
	"github.com/dkurganov/localvault/internal/repositories/directory"
	"github.com/dkurganov/localvault/internal/session"
	"github.com/dkurganov/localvault/internal/worker"
)

// Validation thresholds checked before any I/O is performed.
const (
	MinProfileNameLen = 2
	MinPassphraseLen  = 12
)

// State is the orchestrator's position in the auth flow.
type State int

const (
	StateAnonymous State = iota
	StateRegistering
	StateAwaitingCredentialCreation
	StateLoggingIn
	StateAwaitingCredentialCheck
	StateUpgradingCredentials
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateRegistering:
		return "registering"
	case StateAwaitingCredentialCreation:
		return "awaiting-credential-creation"
	case StateLoggingIn:
		return "logging-in"
	case StateAwaitingCredentialCheck:
		return "awaiting-credential-check"
	case StateUpgradingCredentials:
		return "upgrading-credentials"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Notifier is the user-facing notification surface. The terminal
// implementation lives in the cli package; tests use a recording stub.
type Notifier interface {
	// Notify shows an informational message. Modal messages stay
	// visible until Hide is called.
	Notify(msg string, modal bool)

	// Warn shows an error message.
	Warn(msg string, modal bool)

	// Progress shows a long-running-operation indicator until Hide.
	Progress(msg string)

	// Hide clears any modal message or progress indicator.
	Hide()
}

// AuthOrchestrator is the state machine tying together the directory,
// the credential worker, the session, and the encrypted data store.
// It is the only component that talks to the worker, and it enforces
// a single outstanding worker request at a time.
//
// Not safe for concurrent use; all calls are expected from the one
// coordinating goroutine driving the user interaction.
type AuthOrchestrator struct {
	dir      directory.Repository
	data     DataService
	sess     *session.Session
	notifier Notifier
	log      logging.Logger

	requests  chan<- worker.Request
	responses <-chan worker.Response

	state    State
	inFlight bool

	// Pending Upgrade Backup: plaintext held between "decrypt under
	// old key" and "re-encrypt under new key". Single slot, wiped on
	// every exit path. backupPresent distinguishes an empty-string
	// backup from no backup at all.
	backup        []byte
	backupPresent bool
}

func NewAuthOrchestrator(
	dir directory.Repository,
	data DataService,
	sess *session.Session,
	notifier Notifier,
	w *worker.Worker,
	log logging.Logger,
) *AuthOrchestrator {
	return &AuthOrchestrator{
		dir:       dir,
		data:      data,
		sess:      sess,
		notifier:  notifier,
		log:       log.With("component", "auth-orchestrator"),
		requests:  w.Requests(),
		responses: w.Responses(),
		state:     StateAnonymous,
	}
}

// State reports the current position in the auth flow.
func (o *AuthOrchestrator) State() State {
	return o.state
}

// InFlight reports whether a worker request is outstanding; submission
// is disabled while it is.
func (o *AuthOrchestrator) InFlight() bool {
	return o.inFlight
}

// Profiles lists the registered profiles, ordered by name.
func (o *AuthOrchestrator) Profiles(ctx context.Context) ([]directory.ProfileEntry, error) {
	return o.dir.ListProfiles(ctx)
}

// ProfileName resolves the profile name of the authenticated account.
func (o *AuthOrchestrator) ProfileName(ctx context.Context) (string, error) {
	accountID, _, ok := o.sess.Current()
	if !ok {
		return "", common.ErrNotLoggedIn
	}
	a, err := o.dir.GetAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	return a.ProfileName, nil
}

// Register creates a new profile: validate, reserve the name in the
// directory, have the worker derive credentials, and commit the
// session. Validation failures and name conflicts abort before any
// worker request; a worker failure releases the reservation so the
// name stays usable.
func (o *AuthOrchestrator) Register(ctx context.Context, profileName, passphrase, confirmation string) error {
	if err := o.validateRegistration(profileName, passphrase, confirmation); err != nil {
		return err
	}
	if o.inFlight {
		return common.ErrActionInFlight
	}

	o.setState(ctx, StateRegistering)

	accountID := uuid.NewString()
	if err := o.dir.Reserve(ctx, profileName, accountID); err != nil {
		o.setState(ctx, StateAnonymous)
		if errors.Is(err, common.ErrProfileExists) {
			o.notifier.Warn("Could not add a profile with the given name/description.", true)
			return err
		}
		o.notifier.Warn("Could not reserve the profile. Please try again.", true)
		return err
	}

	o.inFlight = true
	o.setState(ctx, StateAwaitingCredentialCreation)

	resp, err := o.roundTrip(ctx, worker.Request{
		Token: uuid.NewString(),
		CreateAuth: &worker.CreateAuth{
			Password:  strings.TrimSpace(passphrase),
			AccountID: accountID,
		},
	})
	if err != nil {
		o.abortRegistration(ctx, profileName, accountID)
		return err
	}
	if resp.Err != "" {
		o.abortRegistration(ctx, profileName, accountID)
		o.notifier.Warn(resp.Err, true)
		return errors.New(resp.Err)
	}

	o.finalizeAuth(ctx, resp)
	if resp.CredentialsCreated {
		o.notifier.Notify("Local profile created successfully, you're now logged in!", true)
	}
	return nil
}

// Login authenticates against an existing profile, running the nested
// credential-upgrade sequence when the worker reports a deprecated
// scheme.
func (o *AuthOrchestrator) Login(ctx context.Context, accountID, passphrase string) error {
	password := strings.TrimSpace(passphrase)
	if utf8.RuneCountInString(password) < MinPassphraseLen {
		o.notifier.Warn("Please login with a passphrase at least 12 characters long.", true)
		return common.ErrPassphraseTooShort
	}
	if o.inFlight {
		return common.ErrActionInFlight
	}

	o.inFlight = true
	o.setState(ctx, StateAwaitingCredentialCheck)

	resp, err := o.roundTrip(ctx, worker.Request{
		Token:     uuid.NewString(),
		CheckAuth: &worker.CheckAuth{Password: password, AccountID: accountID},
	})
	if err != nil {
		o.abortLogin(ctx)
		return err
	}
	if resp.Err != "" {
		o.abortLogin(ctx)
		o.notifier.Warn(resp.Err, true)
		return errors.New(resp.Err)
	}

	if resp.UpgradePending {
		resp, err = o.upgradeCredentials(ctx, password, resp)
		if err != nil {
			return err
		}
	}

	o.finalizeAuth(ctx, resp)
	return nil
}

// upgradeCredentials runs the rotation sub-sequence: capture the
// plaintext under the old key, have the worker regenerate credentials,
// and re-save under the new key. The old ciphertext is only
// overwritten after both steps succeed, so a failure anywhere leaves
// the pre-upgrade data intact and the user logged out.
func (o *AuthOrchestrator) upgradeCredentials(ctx context.Context, password string, checked worker.Response) (worker.Response, error) {
	if o.backupPresent {
		o.abortLogin(ctx)
		return worker.Response{}, common.ErrUpgradeInFlight
	}

	o.setState(ctx, StateUpgradingCredentials)

	plaintext, present, err := o.data.GetWithKey(ctx, checked.AccountID, checked.KeyText)
	if err != nil {
		o.abortLogin(ctx)
		o.notifier.Warn("Could not read existing data for the encryption upgrade. Please try again.", true)
		return worker.Response{}, err
	}
	o.backup = []byte(plaintext)
	o.backupPresent = present

	o.notifier.Progress("Upgrading data encryption, please wait...")

	regen, err := o.roundTrip(ctx, worker.Request{
		Token: uuid.NewString(),
		CreateAuth: &worker.CreateAuth{
			Password:   password,
			AccountID:  checked.AccountID,
			Regenerate: true,
		},
	})
	if err != nil {
		o.dropBackup()
		o.abortLogin(ctx)
		return worker.Response{}, err
	}
	if regen.Err != "" {
		o.dropBackup()
		o.abortLogin(ctx)
		o.notifier.Warn(regen.Err, true)
		return worker.Response{}, errors.New(regen.Err)
	}

	if regen.AuthRegenerated && o.backupPresent {
		if err := o.data.SaveWithKey(ctx, string(o.backup), regen.AccountID, regen.KeyText, true); err != nil {
			o.log.Error(ctx, "re-save under new credentials failed", "error", err)
			o.dropBackup()
			o.abortLogin(ctx)
			o.notifier.Warn("Re-saving data (during credentials upgrade) failed. Please try again.", true)
			return worker.Response{}, err
		}
	}
	o.dropBackup()

	return regen, nil
}

// Logout clears the session and every piece of transient auth state,
// returning the orchestrator to anonymous.
func (o *AuthOrchestrator) Logout(ctx context.Context) {
	o.sess.Clear()
	o.dropBackup()
	o.inFlight = false
	o.notifier.Hide()
	o.setState(ctx, StateAnonymous)
}

func (o *AuthOrchestrator) validateRegistration(profileName, passphrase, confirmation string) error {
	if utf8.RuneCountInString(profileName) < MinProfileNameLen {
		o.notifier.Warn("Please enter a profile name/description at least 2 characters long.", true)
		return common.ErrProfileNameTooShort
	}
	if utf8.RuneCountInString(strings.TrimSpace(passphrase)) < MinPassphraseLen {
		o.notifier.Warn("Please enter a passphrase at least 12 characters long.", true)
		return common.ErrPassphraseTooShort
	}
	if passphrase != confirmation {
		o.notifier.Warn("Please make sure you enter the exact same passphrase twice.", true)
		return common.ErrPassphraseMismatch
	}
	return nil
}

// roundTrip sends one request and waits for the response carrying the
// same token. Responses with a stale token are logged and dropped; the
// design allows only one request in flight, so anything else is a
// leftover from an abandoned exchange.
func (o *AuthOrchestrator) roundTrip(ctx context.Context, req worker.Request) (worker.Response, error) {
	select {
	case o.requests <- req:
	case <-ctx.Done():
		return worker.Response{}, ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return worker.Response{}, ctx.Err()
		case resp := <-o.responses:
			if resp.Token != req.Token {
				o.log.Warn(ctx, "dropping worker response with stale token", "token", resp.Token)
				continue
			}
			return resp, nil
		}
	}
}

// finalizeAuth commits the session and reveals the authenticated state,
// whether or not an upgrade occurred on the way here.
func (o *AuthOrchestrator) finalizeAuth(ctx context.Context, resp worker.Response) {
	o.sess.Set(resp.AccountID, resp.KeyText)
	o.inFlight = false
	o.notifier.Hide()
	o.setState(ctx, StateAuthenticated)
}

// abortRegistration releases the directory reservation after a failed
// credential creation, so the profile name stays usable.
func (o *AuthOrchestrator) abortRegistration(ctx context.Context, profileName, accountID string) {
	if err := o.dir.Release(ctx, profileName, accountID); err != nil {
		o.log.Error(ctx, "failed to release profile reservation", "profile", profileName, "error", err)
	}
	o.inFlight = false
	o.setState(ctx, StateAnonymous)
}

// abortLogin returns to a stable logged-out state: submission
// re-enabled, session untouched.
func (o *AuthOrchestrator) abortLogin(ctx context.Context) {
	o.inFlight = false
	o.setState(ctx, StateAnonymous)
}

// dropBackup wipes and releases the pending upgrade backup.
func (o *AuthOrchestrator) dropBackup() {
	common.WipeByteArray(o.backup)
	o.backup = nil
	o.backupPresent = false
}

func (o *AuthOrchestrator) setState(ctx context.Context, s State) {
	if o.state == s {
		return
	}
	o.log.Debug(ctx, "state transition", "from", o.state.String(), "to", s.String())
	o.state = s
}
