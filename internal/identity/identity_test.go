package identity_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/shiftsync/internal/identity"
)

func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/device", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client-1", r.Form.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "dev-code",
			"user_code":        "ABCD-EFGH",
			"verification_uri": "https://example.test/device",
			"expires_in":       60,
			"interval":         1,
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "dev-code", r.Form.Get("device_code"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"sub":   "108",
			"name":  "Mei Chen",
			"email": "mei@example.test",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func providerFor(srv *httptest.Server, dir string) *identity.Provider {
	return identity.NewProvider(identity.Config{
		ClientID:      "client-1",
		DeviceAuthURL: srv.URL + "/device",
		TokenURL:      srv.URL + "/token",
		UserInfoURL:   srv.URL + "/userinfo",
	}, dir, nil)
}

func TestSignIn(t *testing.T) {
	srv := fakeProvider(t)
	dir := t.TempDir()
	p := providerFor(srv, dir)
	assert.Nil(t, p.CurrentUser())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var out bytes.Buffer
	user, err := p.SignIn(ctx, &out)
	require.NoError(t, err)

	assert.Equal(t, &identity.User{ID: "108", DisplayName: "Mei Chen", Email: "mei@example.test"}, user)
	assert.Contains(t, out.String(), "https://example.test/device")
	assert.Contains(t, out.String(), "ABCD-EFGH")
	assert.Equal(t, user, p.CurrentUser())

	info, err := os.Stat(filepath.Join(dir, "auth", "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh provider reads the stored session.
	again := providerFor(srv, dir)
	assert.Equal(t, user, again.CurrentUser())

	refreshed, err := again.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "108", refreshed.ID)

	require.NoError(t, again.SignOut())
	assert.Nil(t, again.CurrentUser())
	assert.NoError(t, again.SignOut())
}

func TestSignInNotConfigured(t *testing.T) {
	p := identity.NewProvider(identity.Config{}, t.TempDir(), nil)
	_, err := p.SignIn(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, identity.ErrNotConfigured)
}

func TestRefreshWithoutSession(t *testing.T) {
	p := identity.NewProvider(identity.Config{ClientID: "c"}, t.TempDir(), nil)
	_, err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, identity.ErrNotSignedIn)
}

func TestCorruptSessionIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "auth"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth", "session.json"), []byte("{not json"), 0o600))

	p := identity.NewProvider(identity.Config{ClientID: "c"}, dir, nil)
	assert.Nil(t, p.CurrentUser())
}
