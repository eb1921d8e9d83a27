package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/shiftsync/internal/identity"
	"github.com/Tiliavir/shiftsync/internal/storage"
)

// Config is the root configuration for shiftsync, stored in
// ~/.shiftsync/config.yaml.
type Config struct {
	Identity IdentityConfig `yaml:"identity"`
	Remote   RemoteConfig   `yaml:"remote"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// IdentityConfig holds the OAuth2 client used by `shiftsync login`.
type IdentityConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret,omitempty"`
	// Endpoints default to Google's when empty.
	DeviceAuthURL string   `yaml:"device_auth_url,omitempty"`
	TokenURL      string   `yaml:"token_url,omitempty"`
	UserInfoURL   string   `yaml:"userinfo_url,omitempty"`
	Scopes        []string `yaml:"scopes,omitempty"`
}

// RemoteConfig points at the remote document store. An empty URL disables
// upload and download; "file://<dir>" keeps documents in a shared directory.
type RemoteConfig struct {
	URL         string `yaml:"url"`
	Bucket      string `yaml:"bucket,omitempty"`
	Credentials string `yaml:"credentials,omitempty"`
	Token       string `yaml:"token,omitempty"`
}

// StorageConfig selects the local backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Dir defaults to the shiftsync home directory.
	Dir string `yaml:"dir,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	DefaultBucket   = "SHIFTSYNC"
	DefaultLogLevel = "warn"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Remote:  RemoteConfig{Bucket: DefaultBucket},
		Storage: StorageConfig{Backend: storage.KindFile},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// Normalize fills zero values with defaults so a partially filled file still
// yields a usable Config.
func (c *Config) Normalize() {
	if c.Remote.Bucket == "" {
		c.Remote.Bucket = DefaultBucket
	}
	switch c.Storage.Backend {
	case storage.KindFile, storage.KindSQLite:
	default:
		c.Storage.Backend = storage.KindFile
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		c.Log.Level = DefaultLogLevel
	}
}

// IdentityProvider converts the identity section for the identity package.
func (c *Config) IdentityProvider() identity.Config {
	return identity.Config{
		ClientID:      c.Identity.ClientID,
		ClientSecret:  c.Identity.ClientSecret,
		DeviceAuthURL: c.Identity.DeviceAuthURL,
		TokenURL:      c.Identity.TokenURL,
		UserInfoURL:   c.Identity.UserInfoURL,
		Scopes:        c.Identity.Scopes,
	}
}

// DataDir returns the directory holding local data.
func (c *Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return storage.BaseDir()
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# shiftsync configuration
#
# All settings are optional. Without a remote store and an identity client,
# shiftsync works fully offline.

# OAuth2 client for 'shiftsync login' (device authorization flow).
# Endpoints default to Google's; set them to use another OpenID provider.
identity:
  client_id: ""
  # client_secret: ""
  # device_auth_url: https://oauth2.googleapis.com/device/code
  # token_url: https://oauth2.googleapis.com/token
  # userinfo_url: https://openidconnect.googleapis.com/v1/userinfo

# Remote document store used by 'shiftsync upload' and 'shiftsync download'.
# A NATS server URL with JetStream enabled, e.g. nats://sync.example.com:4222,
# or a shared directory, e.g. file:///mnt/shared/shiftsync.
# Paste a snippet with: shiftsync config remote import
remote:
  url: ""
  bucket: SHIFTSYNC
  # credentials: /path/to/user.creds
  # token: ""

# Local storage: "file" (one JSON file per collection) or "sqlite".
storage:
  backend: file
  # dir: /path/to/data

# Log level for diagnostics on stderr: debug, info, warn or error.
log:
  level: warn
`

// DefaultPath returns <home>/config.yaml.
func DefaultPath() (string, error) {
	dir, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path, creating it from the annotated template on
// first run. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// Save writes cfg to path atomically with 0600 permissions. Comments from the
// template are not preserved.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".shiftsync-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ErrInvalidSnippet is returned when a pasted remote configuration has no
// usable url.
var ErrInvalidSnippet = errors.New("no usable remote configuration found")

var snippetKeys = []string{"url", "bucket", "credentials", "token"}

// ParseRemoteSnippet reads remote settings pasted by the user: a JSON or YAML
// document, or loose `key: "value"` text such as a JavaScript object literal.
// The result must carry a url that is not a placeholder.
func ParseRemoteSnippet(text string) (RemoteConfig, error) {
	var rc RemoteConfig
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(text), &doc); err == nil && doc != nil {
		if nested, ok := doc["remote"].(map[string]any); ok {
			doc = nested
		}
		rc = RemoteConfig{
			URL:         stringField(doc, "url"),
			Bucket:      stringField(doc, "bucket"),
			Credentials: stringField(doc, "credentials"),
			Token:       stringField(doc, "token"),
		}
	}
	if rc.URL == "" {
		rc = scanSnippet(text)
	}

	if rc.URL == "" || isPlaceholder(rc.URL) {
		return RemoteConfig{}, ErrInvalidSnippet
	}
	if isPlaceholder(rc.Token) {
		rc.Token = ""
	}
	if isPlaceholder(rc.Credentials) {
		rc.Credentials = ""
	}
	if rc.Bucket == "" || isPlaceholder(rc.Bucket) {
		rc.Bucket = DefaultBucket
	}
	return rc, nil
}

func stringField(doc map[string]any, key string) string {
	for k, v := range doc {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func scanSnippet(text string) RemoteConfig {
	found := map[string]string{}
	for _, key := range snippetKeys {
		re := regexp.MustCompile(`(?i)\b` + key + `\s*:\s*["']([^"']+)["']`)
		if m := re.FindStringSubmatch(text); m != nil {
			found[key] = strings.TrimSpace(m[1])
		}
	}
	return RemoteConfig{
		URL:         found["url"],
		Bucket:      found["bucket"],
		Credentials: found["credentials"],
		Token:       found["token"],
	}
}

func isPlaceholder(v string) bool {
	u := strings.ToUpper(v)
	return strings.Contains(u, "YOUR_") || strings.Contains(u, "<") || strings.Contains(u, "CHANGEME")
}
