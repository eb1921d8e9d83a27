package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/shiftsync/internal/app"
	"github.com/Tiliavir/shiftsync/internal/config"
	"github.com/Tiliavir/shiftsync/internal/model"
	"github.com/Tiliavir/shiftsync/internal/schedule"
	"github.com/Tiliavir/shiftsync/internal/storage"
	"github.com/Tiliavir/shiftsync/internal/syncstore"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SHIFTSYNC_HOME", home)
	cfg := config.DefaultConfig()
	cfg.Storage.Dir = filepath.Join(home, "data")
	return cfg
}

func TestOpenDefaults(t *testing.T) {
	a, err := app.Open(testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, schedule.DefaultJobs(), a.Jobs.Value())
	assert.Empty(t, a.Shifts.Value())
	assert.Empty(t, a.Clipboard.Value())
	assert.Nil(t, a.Remote)
	assert.Nil(t, a.CurrentUser())

	names := []string{}
	for _, c := range a.Collections() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"jobs", "shifts"}, names)
}

func TestChangesSurviveReopen(t *testing.T) {
	for _, backend := range []string{storage.KindFile, storage.KindSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Backend = backend

			a, err := app.Open(cfg, nil)
			require.NoError(t, err)
			a.Shifts.Update([]model.Shift{{ID: "s1", JobID: "job-a", Date: "2024-06-05", Start: "09:00", End: "18:00"}})
			a.Clipboard.Update([]model.ClipboardShift{{Start: "09:00", End: "18:00", JobID: "job-a"}})
			require.NoError(t, a.Close())

			b, err := app.Open(cfg, nil)
			require.NoError(t, err)
			defer b.Close()
			require.Len(t, b.Shifts.Value(), 1)
			assert.Equal(t, "s1", b.Shifts.Value()[0].ID)
			assert.Len(t, b.Clipboard.Value(), 1)
			assert.False(t, b.Shifts.Synced())
		})
	}
}

func TestTransferErrors(t *testing.T) {
	ctx := context.Background()

	a, err := app.Open(testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()
	for _, c := range a.Collections() {
		assert.ErrorIs(t, c.Upload(ctx), syncstore.ErrNotConfigured, c.Name)
	}

	cfg := testConfig(t)
	cfg.Remote.URL = "file://" + t.TempDir()
	b, err := app.Open(cfg, nil)
	require.NoError(t, err)
	defer b.Close()
	require.NotNil(t, b.Remote)
	for _, c := range b.Collections() {
		assert.ErrorIs(t, c.Download(ctx), syncstore.ErrNotAuthenticated, c.Name)
	}
}

// signIn stores a session for user id in the shiftsync home of cfg.
func signIn(t *testing.T, cfg *config.Config, id string) {
	t.Helper()
	dir := filepath.Join(filepath.Dir(cfg.Storage.Dir), "auth")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	session := `{"token":{"access_token":"tok","token_type":"Bearer"},"user":{"id":"` + id + `","displayName":"Mei"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(session), 0o600))
}

func TestUploadThenDownloadAcrossInvocations(t *testing.T) {
	ctx := context.Background()
	remoteURL := "file://" + t.TempDir()
	shifts := []model.Shift{{ID: "s1", JobID: "job-a", Date: "2024-06-05", Start: "09:00", End: "18:00"}}

	cfg := testConfig(t)
	cfg.Remote.URL = remoteURL
	signIn(t, cfg, "u1")

	up, err := app.Open(cfg, nil)
	require.NoError(t, err)
	up.Shifts.Update(shifts)
	for _, c := range up.Collections() {
		require.NoError(t, c.Upload(ctx), c.Name)
	}
	require.NoError(t, up.Close())

	// The same device in a later command still sees the upload.
	again, err := app.Open(cfg, nil)
	require.NoError(t, err)
	assert.True(t, again.Shifts.Synced())
	require.NoError(t, again.Shifts.Download(ctx))
	assert.Equal(t, shifts, again.Shifts.Value())
	require.NoError(t, again.Close())

	// Another device signed in as the same user downloads it.
	other := testConfig(t)
	other.Remote.URL = remoteURL
	signIn(t, other, "u1")

	down, err := app.Open(other, nil)
	require.NoError(t, err)
	defer down.Close()
	assert.Empty(t, down.Shifts.Value())
	for _, c := range down.Collections() {
		require.NoError(t, c.Download(ctx), c.Name)
	}
	assert.Equal(t, shifts, down.Shifts.Value())
	assert.Equal(t, schedule.DefaultJobs(), down.Jobs.Value())
	assert.True(t, down.Shifts.Synced())

	// A different user has nothing there.
	stranger := testConfig(t)
	stranger.Remote.URL = remoteURL
	signIn(t, stranger, "u2")
	s, err := app.Open(stranger, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.ErrorIs(t, s.Shifts.Download(ctx), syncstore.ErrNoRemoteData)
}
