// Package cloud is the remote document store: one document per user and
// collection, always read and written whole.
package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by Get when no document exists under a key.
	ErrNotFound = errors.New("document not found")
	// ErrNotConfigured is returned when no remote store has been set up.
	ErrNotConfigured = errors.New("remote store not configured")
)

// Document is the stored form of a collection.
type Document struct {
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DocumentStore reads and writes whole documents.
type DocumentStore interface {
	Get(ctx context.Context, key string) (Document, error)
	// Put replaces the document under key and returns it as stored, with
	// UpdatedAt set by the store.
	Put(ctx context.Context, key string, doc Document) (Document, error)
}

// Key returns the document key for a user's collection.
func Key(userID, collection string) string {
	return "users." + escape(userID) + ".data." + escape(collection)
}

// escape keeps key-safe characters and writes every other byte as =XX, so
// distinct inputs never share a key.
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "=%02X", c)
		}
	}
	return b.String()
}

// Open returns the store for opts.URL: "file://<dir>" gives a FileStore,
// a nats, tls, ws or wss URL (or a bare host:port) gives a KVStore.
// MemoryStore is never returned; it does not outlive the process.
func Open(opts KVOptions) (DocumentStore, error) {
	if opts.URL == "" {
		return nil, ErrNotConfigured
	}
	scheme, rest, ok := strings.Cut(opts.URL, "://")
	if !ok {
		return NewKVStore(opts), nil
	}
	switch strings.ToLower(scheme) {
	case "file":
		if rest == "" {
			return nil, fmt.Errorf("remote url %q has no directory", opts.URL)
		}
		return NewFileStore(rest), nil
	case "nats", "tls", "ws", "wss":
		return NewKVStore(opts), nil
	default:
		return nil, fmt.Errorf("unsupported remote url scheme %q", scheme)
	}
}
