package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dkurganov/localvault/internal/common"
	"github.com/dkurganov/localvault/internal/repositories/directory"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Profiles prints the registered profiles ordered by name.
func (a *App) Profiles(ctx context.Context) error {
	profiles, err := a.orch.Profiles(ctx)
	if err != nil {
		a.notifier.Warn("Could not load profiles.", true)
		return err
	}
	if len(profiles) == 0 {
		printlnFn("No profiles yet. Use 'register' to create one.")
		return nil
	}
	for i, p := range profiles {
		printlnFn(fmt.Sprintf("  [%d] %s", i+1, p.Name))
	}
	return nil
}

// Register prompts for a profile name and a passphrase (twice) and runs
// the registration sequence. Validation failures and conflicts are
// surfaced through the notifier by the orchestrator.
func (a *App) Register(ctx context.Context) error {
	profileName, err := getSimpleText(a.reader, "Enter a profile name/description", os.Stdout)
	if err != nil {
		return err
	}

	passphrase, err := getPassword("Enter passphrase (min 12 characters)", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	confirmation, err := getPassword("Confirm passphrase", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	if err := a.orch.Register(ctx, profileName, string(passphrase), string(confirmation)); err != nil {
		return err
	}

	return a.Show(ctx)
}

// Login asks which profile to unlock and prompts for its passphrase.
// On a failed attempt the passphrase is never kept around; the user
// simply runs login again.
func (a *App) Login(ctx context.Context) error {
	profiles, err := a.orch.Profiles(ctx)
	if err != nil {
		a.notifier.Warn("Could not load profiles.", true)
		return err
	}
	if len(profiles) == 0 {
		printlnFn("No profiles yet. Use 'register' to create one.")
		return nil
	}

	if err := a.Profiles(ctx); err != nil {
		return err
	}

	choice, err := getSimpleText(a.reader, "Select a profile (number or name)", os.Stdout)
	if err != nil {
		return err
	}
	entry, ok := selectProfile(profiles, choice)
	if !ok {
		a.notifier.Warn("No such profile.", true)
		return common.ErrorNotFound
	}

	passphrase, err := getPassword("Enter passphrase", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	if err := a.orch.Login(ctx, entry.AccountID, string(passphrase)); err != nil {
		return err
	}

	return a.Show(ctx)
}

// Logout clears the session and all transient auth state.
func (a *App) Logout(ctx context.Context) error {
	a.orch.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

// selectProfile resolves a user's choice, entered either as a 1-based
// list index or as an exact profile name.
func selectProfile(profiles []directory.ProfileEntry, choice string) (directory.ProfileEntry, bool) {
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(profiles) {
			return profiles[n-1], true
		}
		return directory.ProfileEntry{}, false
	}
	for _, p := range profiles {
		if p.Name == choice {
			return p, true
		}
	}
	return directory.ProfileEntry{}, false
}
