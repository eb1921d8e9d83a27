// Package identity signs the user in with the OAuth2 device authorization
// flow and keeps the resulting session on disk.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

const (
	googleDeviceAuthURL = "https://oauth2.googleapis.com/device/code"
	googleTokenURL      = "https://oauth2.googleapis.com/token"
	googleUserInfoURL   = "https://openidconnect.googleapis.com/v1/userinfo"
)

var defaultScopes = []string{"openid", "profile", "email"}

var (
	// ErrNotConfigured is returned when no OAuth2 client id is set.
	ErrNotConfigured = errors.New("identity provider not configured: set identity.client_id")
	// ErrNotSignedIn is returned by operations that need a session.
	ErrNotSignedIn = errors.New("not signed in")
)

// Config holds the OAuth2 client settings. Empty endpoints fall back to
// Google's.
type Config struct {
	ClientID      string
	ClientSecret  string
	DeviceAuthURL string
	TokenURL      string
	UserInfoURL   string
	Scopes        []string
}

// User is the signed-in account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

type session struct {
	Token *oauth2.Token `json:"token"`
	User  User          `json:"user"`
}

// Provider runs the sign-in flow and owns the stored session.
type Provider struct {
	cfg    Config
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	cached  *session
	checked bool
}

// NewProvider returns a Provider that keeps its session under
// <dir>/auth/session.json.
func NewProvider(cfg Config, dir string, logger *slog.Logger) *Provider {
	if cfg.DeviceAuthURL == "" {
		cfg.DeviceAuthURL = googleDeviceAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = googleTokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = googleUserInfoURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = defaultScopes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:    cfg,
		path:   filepath.Join(dir, "auth", "session.json"),
		logger: logger,
	}
}

func (p *Provider) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		Scopes:       p.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: p.cfg.DeviceAuthURL,
			TokenURL:      p.cfg.TokenURL,
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// SignIn runs the device flow, printing the verification instructions to out,
// then looks up the account and stores the session.
func (p *Provider) SignIn(ctx context.Context, out io.Writer) (*User, error) {
	if p.cfg.ClientID == "" {
		return nil, ErrNotConfigured
	}
	cfg := p.oauth2Config()

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(out)

	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}

	s := &session{Token: tok}
	user, err := p.fetchUser(ctx, s)
	if err != nil {
		return nil, err
	}
	s.User = *user
	if err := p.save(s); err != nil {
		return nil, err
	}
	p.logger.Info("Signed in", "user", user.ID)
	return user, nil
}

// Refresh re-reads the account details with the stored token, refreshing the
// token first if it has expired.
func (p *Provider) Refresh(ctx context.Context) (*User, error) {
	s := p.load()
	if s == nil {
		return nil, ErrNotSignedIn
	}
	user, err := p.fetchUser(ctx, s)
	if err != nil {
		return nil, err
	}
	s.User = *user
	if err := p.save(s); err != nil {
		return nil, err
	}
	return user, nil
}

// SignOut removes the stored session. Signing out twice is not an error.
func (p *Provider) SignOut() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached, p.checked = nil, true
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func (p *Provider) CurrentUser() *User {
	s := p.load()
	if s == nil {
		return nil
	}
	u := s.User
	return &u
}

func (p *Provider) load() *session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.checked {
		return p.cached
	}
	p.checked = true

	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		p.logger.Warn("Could not read session", "path", p.path, "error", err)
		return nil
	}
	var s session
	if err := json.Unmarshal(data, &s); err != nil || s.User.ID == "" {
		p.logger.Warn("Ignoring corrupt session; sign in again", "path", p.path)
		return nil
	}
	p.cached = &s
	return p.cached
}

func (p *Provider) save(s *session) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	tmpPath := p.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmpPath, p.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving session file: %w", err)
	}

	p.mu.Lock()
	p.cached, p.checked = s, true
	p.mu.Unlock()
	return nil
}
