// Package app wires the import pipeline, the report engine and the persister
// into the command surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/accountsync/internal/config"
	"github.com/JonMunkholm/accountsync/internal/core"
	"github.com/JonMunkholm/accountsync/internal/logging"
	"github.com/JonMunkholm/accountsync/internal/source"
	"github.com/JonMunkholm/accountsync/internal/store"
)

// App runs one command per invocation.
type App struct {
	Out io.Writer

	// Paths lists the source files to import, in order.
	Paths func(ctx context.Context) ([]string, error)

	// OpenStore opens the create_database target.
	OpenStore func(ctx context.Context) (store.Persister, error)

	Timeout time.Duration
	Clock   func() time.Time

	importer *source.Importer
}

// New builds an App from cfg. Explicit DATA_FILES take precedence over
// walking DATA_DIR.
func New(cfg *config.Config, out io.Writer) *App {
	a := &App{
		Out:      out,
		Timeout:  cfg.Run.Timeout,
		Clock:    time.Now,
		importer: source.NewImporter(),
	}

	if len(cfg.Input.Files) > 0 {
		files := cfg.Input.Files
		a.Paths = func(context.Context) ([]string, error) { return files, nil }
	} else {
		dir := cfg.Input.DataDir
		a.Paths = func(ctx context.Context) ([]string, error) { return source.Discover(ctx, dir) }
	}

	target := cfg.Persist.Target
	a.OpenStore = func(ctx context.Context) (store.Persister, error) { return store.Open(ctx, target) }

	return a
}

// Run executes the named command with the given credentials.
//
// An unknown command prints "Invalid command" and nothing is loaded.
// Authentication, authorization and missing-children outcomes are printed as
// their message and are not errors. Anything else (an unreadable source, a
// failed write) is returned.
func (a *App) Run(ctx context.Context, name, login, password string) error {
	cmd, ok := Lookup(name)
	if !ok {
		fmt.Fprintln(a.Out, "Invalid command")
		return nil
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	log := logging.WithFields(ctx, "command", cmd.Name)

	paths, err := a.Paths(ctx)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	records, err := Load(ctx, a.importer, paths)
	if err != nil {
		return err
	}

	reports := core.NewReports(records)
	if a.Clock != nil {
		reports.WithClock(a.Clock)
	}

	env := &Env{
		Out:       a.Out,
		Reports:   reports,
		Login:     login,
		Password:  password,
		OpenStore: a.OpenStore,
	}

	err = cmd.Run(ctx, env)
	switch {
	case err == nil:
		log.Debug("command finished")
		return nil
	case core.IsAuthFailure(err), errors.Is(err, core.ErrNoChildren):
		log.Info("command refused", "reason", err)
		fmt.Fprintln(a.Out, err)
		return nil
	default:
		return err
	}
}
