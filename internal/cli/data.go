package cli

import (
	"context"
	"os"
)

// Show prints the authenticated profile's label and decrypted data.
func (a *App) Show(ctx context.Context) error {
	name, err := a.orch.ProfileName(ctx)
	if err != nil {
		a.notifier.Warn("Please login first.", true)
		return err
	}

	data, present, err := a.data.Get(ctx)
	if err != nil {
		a.notifier.Warn("Could not read your saved data.", true)
		return err
	}

	printlnFn("Profile: " + name)
	if !present {
		printlnFn("(no data saved yet)")
		return nil
	}
	printlnFn(data)
	return nil
}

// Save reads replacement data from the user and stores it encrypted
// under the session key, overwriting the previous blob.
func (a *App) Save(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Enter the data to keep encrypted", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.data.Save(ctx, text); err != nil {
		a.notifier.Warn("Saving data failed. Please try again.", true)
		return err
	}

	a.notifier.Notify("Data saved (encrypted) successfully.", false)
	return nil
}
