// Package app opens everything a command needs: local storage, the remote
// store, the identity provider and the synchronized collections.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Tiliavir/shiftsync/internal/cloud"
	"github.com/Tiliavir/shiftsync/internal/config"
	"github.com/Tiliavir/shiftsync/internal/identity"
	"github.com/Tiliavir/shiftsync/internal/model"
	"github.com/Tiliavir/shiftsync/internal/schedule"
	"github.com/Tiliavir/shiftsync/internal/storage"
	"github.com/Tiliavir/shiftsync/internal/syncstore"
)

// Collection names, used both as local keys and remote document names.
const (
	JobsCollection      = "jobs"
	ShiftsCollection    = "shifts"
	ClipboardCollection = "clipboard"
)

// Transferable is a collection that can be uploaded and downloaded.
type Transferable interface {
	Upload(ctx context.Context) error
	Download(ctx context.Context) error
	Status() syncstore.Status
}

// Collection pairs a synchronized collection with its name.
type Collection struct {
	Name string
	Transferable
}

// App holds the opened stores. The clipboard never leaves the device.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Local    storage.Backend
	Remote   cloud.DocumentStore
	Identity *identity.Provider

	Jobs      *syncstore.Store[[]model.Job]
	Shifts    *syncstore.Store[[]model.Shift]
	Clipboard *syncstore.Store[[]model.ClipboardShift]
}

// Open wires the application from cfg. It does not contact the network.
func Open(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	home, err := storage.BaseDir()
	if err != nil {
		return nil, err
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	local, err := storage.Open(cfg.Storage.Backend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	remote, err := cloud.Open(cloud.KVOptions{
		URL:         cfg.Remote.URL,
		Bucket:      cfg.Remote.Bucket,
		Credentials: cfg.Remote.Credentials,
		Token:       cfg.Remote.Token,
		Logger:      logger,
	})
	if errors.Is(err, cloud.ErrNotConfigured) {
		remote = nil
	} else if err != nil {
		local.Close()
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Local:    local,
		Remote:   remote,
		Identity: identity.NewProvider(cfg.IdentityProvider(), home, logger),
	}
	a.Jobs = syncstore.Open(syncstore.Options[[]model.Job]{
		Collection: JobsCollection,
		LocalKey:   JobsCollection,
		Initial:    schedule.DefaultJobs(),
		Local:      local,
		Remote:     remote,
		Users:      a,
		Logger:     logger,
	})
	a.Shifts = syncstore.Open(syncstore.Options[[]model.Shift]{
		Collection: ShiftsCollection,
		LocalKey:   ShiftsCollection,
		Initial:    []model.Shift{},
		Local:      local,
		Remote:     remote,
		Users:      a,
		Logger:     logger,
	})
	a.Clipboard = syncstore.Open(syncstore.Options[[]model.ClipboardShift]{
		Collection: ClipboardCollection,
		LocalKey:   ClipboardCollection,
		Initial:    []model.ClipboardShift{},
		Local:      local,
		Logger:     logger,
	})
	return a, nil
}

// CurrentUser reports the signed-in user to the stores.
func (a *App) CurrentUser() *identity.User {
	return a.Identity.CurrentUser()
}

// Collections lists the collections that sync with the remote store.
func (a *App) Collections() []Collection {
	return []Collection{
		{Name: JobsCollection, Transferable: a.Jobs},
		{Name: ShiftsCollection, Transferable: a.Shifts},
	}
}

// Close releases local storage and any remote connection.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.Remote.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.Local.Close())
	return errors.Join(errs...)
}
