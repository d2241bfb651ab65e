// Package cli is the interactive surface of localvault: a REPL that
// drives the auth orchestrator and the encrypted data store.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dkurganov/localvault/internal/config"
	"github.com/dkurganov/localvault/internal/logging"
	"github.com/dkurganov/localvault/internal/repositories/blobs"
	"github.com/dkurganov/localvault/internal/repositories/credentials"
	"github.com/dkurganov/localvault/internal/repositories/directory"
	"github.com/dkurganov/localvault/internal/services"
	"github.com/dkurganov/localvault/internal/session"
	"github.com/dkurganov/localvault/internal/storage"
	"github.com/dkurganov/localvault/internal/worker"
)

type App struct {
	config *config.Config
	log    logging.Logger

	db       *sql.DB
	orch     *services.AuthOrchestrator
	data     services.DataService
	worker   *worker.Worker
	notifier services.Notifier
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sess := session.New()
	notifier := NewTerminalNotifier(os.Stdout)

	w := worker.New(credentials.NewSQLiteRepository(db), log)
	data := services.NewDataService(blobs.NewSQLiteRepository(db), sess, log)
	orch := services.NewAuthOrchestrator(directory.NewSQLiteRepository(db), data, sess, notifier, w, log)

	return &App{
		config:   c,
		log:      log,
		db:       db,
		orch:     orch,
		data:     data,
		worker:   w,
		notifier: notifier,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the credential worker and serves the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.worker.Run(ctx)

	a.greet(ctx)
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// greet points the user at registration when the directory is empty,
// otherwise at login.
func (a *App) greet(ctx context.Context) {
	printlnFn("localvault (type 'help' for commands)")

	profiles, err := a.orch.Profiles(ctx)
	if err != nil {
		a.log.Error(ctx, "listing profiles failed", "error", err)
		return
	}
	if len(profiles) == 0 {
		printlnFn("No profiles yet. Use 'register' to create one.")
	} else {
		printlnFn("Use 'login' to unlock a profile, or 'register' to create another.")
	}
}

func (a *App) isLoggedIn() bool {
	return a.orch.State() == services.StateAuthenticated
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "anonymous"
	}
	name, err := a.orch.ProfileName(context.Background())
	if err != nil {
		return "?"
	}
	return name
}
