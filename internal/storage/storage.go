// Package storage keeps the durable local copy of each data collection.
// Values are opaque bytes addressed by a short key such as "jobs".
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNotFound is returned by Read when nothing is stored under a key.
var ErrNotFound = errors.New("key not found")

// Backend is a durable key/value store.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
	// Quarantine moves the value under key aside to key+".corrupt" so a later
	// Write does not destroy data that could not be read.
	Quarantine(key string) error
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// BaseDir returns the root data directory: $SHIFTSYNC_HOME if set, else
// ~/.shiftsync.
func BaseDir() (string, error) {
	if dir := os.Getenv("SHIFTSYNC_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shiftsync"), nil
}

// Open returns the backend of the given kind rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(dir), nil
	case KindSQLite:
		return NewSQLiteBackend(filepath.Join(dir, "shiftsync.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
