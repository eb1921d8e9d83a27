package syncstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/shiftsync/internal/cloud"
	"github.com/Tiliavir/shiftsync/internal/identity"
	"github.com/Tiliavir/shiftsync/internal/model"
	"github.com/Tiliavir/shiftsync/internal/storage"
	"github.com/Tiliavir/shiftsync/internal/syncstore"
)

type users struct{ user *identity.User }

func (u users) CurrentUser() *identity.User { return u.user }

var signedIn = users{user: &identity.User{ID: "u1", DisplayName: "Mei"}}

func open(local storage.Backend, remote cloud.DocumentStore, u syncstore.UserSource) *syncstore.Store[[]model.Shift] {
	opts := syncstore.Options[[]model.Shift]{
		Collection: "shifts",
		LocalKey:   "shifts",
		Initial:    []model.Shift{},
		Local:      local,
		Remote:     remote,
		Users:      u,
	}
	return syncstore.Open(opts)
}

var sample = []model.Shift{{ID: "s1", JobID: "job-a", Date: "2024-06-05", Start: "09:00", End: "18:00"}}

func TestOpenUsesInitial(t *testing.T) {
	s := open(storage.NewFileBackend(t.TempDir()), nil, nil)
	assert.Equal(t, []model.Shift{}, s.Value())
	assert.False(t, s.Synced())
}

func TestUpdatePersistsLocally(t *testing.T) {
	local := storage.NewFileBackend(t.TempDir())
	s := open(local, nil, nil)
	s.Update(sample)
	assert.Equal(t, sample, s.Value())
	assert.False(t, s.Synced())

	data, err := local.Read("shifts")
	require.NoError(t, err)
	var stored []model.Shift
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, sample, stored)

	reopened := open(local, nil, nil)
	assert.Equal(t, sample, reopened.Value())
}

func TestUpdateFunc(t *testing.T) {
	s := open(storage.NewFileBackend(t.TempDir()), nil, nil)
	s.UpdateFunc(func(cur []model.Shift) []model.Shift { return append(cur, sample...) })
	s.UpdateFunc(func(cur []model.Shift) []model.Shift { return append(cur, model.Shift{ID: "s2"}) })
	assert.Len(t, s.Value(), 2)
}

func TestUpdateFuncMayReadStore(t *testing.T) {
	s := open(storage.NewFileBackend(t.TempDir()), nil, nil)
	s.Update(sample)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.UpdateFunc(func(cur []model.Shift) []model.Shift {
			assert.Len(t, s.Value(), len(cur))
			assert.False(t, s.Status().Synced)
			return append(cur, model.Shift{ID: "s2"})
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("UpdateFunc blocked while its updater read the store")
	}
	assert.Len(t, s.Value(), 2)
}

func TestUpdateFuncRetriesOnConcurrentChange(t *testing.T) {
	s := open(storage.NewFileBackend(t.TempDir()), nil, nil)

	calls := 0
	s.UpdateFunc(func(cur []model.Shift) []model.Shift {
		calls++
		if calls == 1 {
			// Another writer commits while this updater is running.
			s.Update(sample)
		}
		return append(append([]model.Shift{}, cur...), model.Shift{ID: "s2"})
	})

	assert.Equal(t, 2, calls)
	got := s.Value()
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "s2", got[1].ID)
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	remote := cloud.NewMemoryStore()

	a := open(storage.NewFileBackend(t.TempDir()), remote, signedIn)
	a.Update(sample)
	require.NoError(t, a.Upload(ctx))
	assert.True(t, a.Synced())
	assert.False(t, a.Status().SyncedAt.IsZero())

	doc, err := remote.Get(ctx, "users.u1.data.shifts")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Value), `"dateStr":"2024-06-05"`)

	bLocal := storage.NewFileBackend(t.TempDir())
	b := open(bLocal, remote, signedIn)
	require.NoError(t, b.Download(ctx))
	assert.Equal(t, sample, b.Value())
	assert.True(t, b.Synced())

	// Download also replaced the local copy and its status.
	reopened := open(bLocal, remote, signedIn)
	assert.Equal(t, sample, reopened.Value())
	assert.True(t, reopened.Synced())

	b.Update(nil)
	assert.False(t, b.Synced())
}

func TestDownloadWithoutRemoteData(t *testing.T) {
	local := storage.NewFileBackend(t.TempDir())
	s := open(local, cloud.NewMemoryStore(), signedIn)
	s.Update(sample)

	err := s.Download(context.Background())
	assert.ErrorIs(t, err, syncstore.ErrNoRemoteData)
	assert.Equal(t, sample, s.Value())
	assert.False(t, s.Synced())
}

func TestTransferPreconditions(t *testing.T) {
	ctx := context.Background()
	local := storage.NewFileBackend(t.TempDir())

	noUser := open(local, cloud.NewMemoryStore(), users{})
	assert.ErrorIs(t, noUser.Upload(ctx), syncstore.ErrNotAuthenticated)
	assert.ErrorIs(t, noUser.Download(ctx), syncstore.ErrNotAuthenticated)

	noSource := open(local, cloud.NewMemoryStore(), nil)
	assert.ErrorIs(t, noSource.Upload(ctx), syncstore.ErrNotAuthenticated)

	noRemote := open(local, nil, signedIn)
	assert.ErrorIs(t, noRemote.Upload(ctx), syncstore.ErrNotConfigured)
	assert.ErrorIs(t, noRemote.Download(ctx), syncstore.ErrNotConfigured)
}

type failingRemote struct{ err error }

func (f failingRemote) Get(context.Context, string) (cloud.Document, error) {
	return cloud.Document{}, f.err
}

func (f failingRemote) Put(context.Context, string, cloud.Document) (cloud.Document, error) {
	return cloud.Document{}, f.err
}

func TestRemoteErrors(t *testing.T) {
	ctx := context.Background()
	local := storage.NewFileBackend(t.TempDir())

	boom := errors.New("connection reset")
	s := open(local, failingRemote{err: boom}, signedIn)
	s.Update(sample)
	err := s.Upload(ctx)
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Synced())
	assert.ErrorIs(t, s.Download(ctx), boom)
	assert.Equal(t, sample, s.Value())

	unconfigured := open(local, failingRemote{err: cloud.ErrNotConfigured}, signedIn)
	assert.ErrorIs(t, unconfigured.Upload(ctx), syncstore.ErrNotConfigured)
}

func TestCorruptLocalIsQuarantined(t *testing.T) {
	local := storage.NewFileBackend(t.TempDir())
	require.NoError(t, local.Write("shifts", []byte("{not json")))

	s := open(local, nil, nil)
	assert.Equal(t, []model.Shift{}, s.Value())

	backup, err := local.Read("shifts.corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
	_, err = local.Read("shifts")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

type brokenBackend struct{ storage.Backend }

func (brokenBackend) Write(string, []byte) error { return errors.New("disk full") }

func TestFailingLocalWriteStillUpdatesMemory(t *testing.T) {
	s := open(brokenBackend{storage.NewFileBackend(t.TempDir())}, nil, nil)
	s.Update(sample)
	assert.Equal(t, sample, s.Value())
}

type blockingRemote struct {
	*cloud.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (b blockingRemote) Put(ctx context.Context, key string, doc cloud.Document) (cloud.Document, error) {
	close(b.entered)
	<-b.release
	return b.MemoryStore.Put(ctx, key, doc)
}

func TestConcurrentTransferIsBusy(t *testing.T) {
	remote := blockingRemote{
		MemoryStore: cloud.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	s := open(storage.NewFileBackend(t.TempDir()), remote, signedIn)
	s.Update(sample)

	done := make(chan error, 1)
	go func() { done <- s.Upload(context.Background()) }()
	<-remote.entered

	assert.ErrorIs(t, s.Upload(context.Background()), syncstore.ErrBusy)
	assert.ErrorIs(t, s.Download(context.Background()), syncstore.ErrBusy)

	// Edits during a transfer are allowed and keep the collection unsynced.
	s.Update(append(sample, model.Shift{ID: "s2"}))

	close(remote.release)
	require.NoError(t, <-done)
	assert.False(t, s.Synced())
}
