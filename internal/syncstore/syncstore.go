// Package syncstore keeps one collection in memory, mirrors every change to
// local storage, and moves it to and from the remote document store only
// when asked to.
package syncstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Tiliavir/shiftsync/internal/cloud"
	"github.com/Tiliavir/shiftsync/internal/identity"
	"github.com/Tiliavir/shiftsync/internal/storage"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrNotConfigured    = errors.New("remote store not configured")
	ErrNoRemoteData     = errors.New("no remote data for this collection")
	ErrBusy             = errors.New("another transfer of this collection is in progress")
)

// UserSource reports the signed-in user, or nil.
type UserSource interface {
	CurrentUser() *identity.User
}

// Status is the synchronization state of a collection.
type Status struct {
	// Synced is false once the collection has changed locally since the last
	// upload or download.
	Synced   bool      `json:"synced"`
	SyncedAt time.Time `json:"syncedAt,omitzero"`
}

// Options configures a Store. Remote and Users may be nil.
type Options[T any] struct {
	// Collection names the remote document.
	Collection string
	// LocalKey names the local copy; the status is kept under LocalKey+".sync".
	LocalKey string
	Initial  T
	Local    storage.Backend
	Remote   cloud.DocumentStore
	Users    UserSource
	Logger   *slog.Logger
}

// Store is a synchronized collection. It is safe for concurrent use.
type Store[T any] struct {
	opts   Options[T]
	logger *slog.Logger

	mu       sync.Mutex
	value    T
	status   Status
	version  uint64
	inFlight bool
}

// Open loads the local copy, falling back to opts.Initial when it is missing
// or unreadable. It never touches the network.
func Open[T any](opts Options[T]) *Store[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store[T]{
		opts:   opts,
		logger: logger.With("collection", opts.Collection),
		value:  opts.Initial,
	}
	s.loadLocal()
	return s
}

func (s *Store[T]) statusKey() string { return s.opts.LocalKey + ".sync" }

func (s *Store[T]) loadLocal() {
	data, err := s.opts.Local.Read(s.opts.LocalKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return
	case err != nil:
		s.logger.Warn("Could not read local copy; using defaults", "error", err)
		return
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("Local copy is corrupt; moved aside and using defaults", "key", s.opts.LocalKey, "error", err)
		if qErr := s.opts.Local.Quarantine(s.opts.LocalKey); qErr != nil {
			s.logger.Error("Could not move corrupt local copy", "error", qErr)
		}
		return
	}
	s.value = v

	data, err = s.opts.Local.Read(s.statusKey())
	if err != nil {
		return
	}
	var st Status
	if err := json.Unmarshal(data, &st); err == nil {
		s.status = st
	}
}

// Value returns the current value. Slices and maps inside it are shared with
// the store and must not be modified; use Update.
func (s *Store[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Synced reports whether the collection is unchanged since the last transfer.
func (s *Store[T]) Synced() bool {
	return s.Status().Synced
}

// Status returns the synchronization status.
func (s *Store[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Update replaces the value.
func (s *Store[T]) Update(v T) {
	s.UpdateFunc(func(T) T { return v })
}

// UpdateFunc replaces the value with fn(current). fn runs without the store
// lock held, so it may call Value or Status; if another update lands while fn
// runs, fn is called again on the newer value. The new value is written to
// local storage before it becomes visible; a failed write is logged and the
// in-memory value is updated regardless.
func (s *Store[T]) UpdateFunc(fn func(T) T) {
	for {
		s.mu.Lock()
		cur, version := s.value, s.version
		s.mu.Unlock()

		next := fn(cur)

		s.mu.Lock()
		if s.version != version {
			s.mu.Unlock()
			continue
		}
		s.persist(next)
		s.value = next
		s.version++
		s.setStatus(Status{Synced: false, SyncedAt: s.status.SyncedAt})
		s.mu.Unlock()
		return
	}
}

func (s *Store[T]) persist(v T) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Could not encode collection", "error", err)
		return
	}
	if err := s.opts.Local.Write(s.opts.LocalKey, data); err != nil {
		s.logger.Error("Could not save local copy", "key", s.opts.LocalKey, "error", err)
	}
}

func (s *Store[T]) setStatus(st Status) {
	s.status = st
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.opts.Local.Write(s.statusKey(), data); err != nil {
		s.logger.Error("Could not save sync status", "key", s.statusKey(), "error", err)
	}
}

// begin claims the collection for a transfer and resolves the remote key.
func (s *Store[T]) begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return "", ErrBusy
	}
	if s.opts.Remote == nil {
		return "", ErrNotConfigured
	}
	var user *identity.User
	if s.opts.Users != nil {
		user = s.opts.Users.CurrentUser()
	}
	if user == nil {
		return "", ErrNotAuthenticated
	}
	s.inFlight = true
	return cloud.Key(user.ID, s.opts.Collection), nil
}

func (s *Store[T]) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func remoteErr(op string, err error) error {
	if errors.Is(err, cloud.ErrNotConfigured) {
		return ErrNotConfigured
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Upload writes the current value to the remote store, replacing whatever is
// there.
func (s *Store[T]) Upload(ctx context.Context) error {
	key, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	snapshot, version := s.value, s.version
	s.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.opts.Collection, err)
	}
	doc, err := s.opts.Remote.Put(ctx, key, cloud.Document{Value: data})
	if err != nil {
		return remoteErr("upload "+s.opts.Collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A change made while the upload was running is not on the remote.
	if s.version == version {
		s.setStatus(Status{Synced: true, SyncedAt: doc.UpdatedAt})
	}
	s.logger.Info("Uploaded", "key", key, "bytes", len(data))
	return nil
}

// Download replaces the value with the remote copy. When the remote has no
// copy it returns ErrNoRemoteData and leaves the local state untouched.
func (s *Store[T]) Download(ctx context.Context) error {
	key, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	doc, err := s.opts.Remote.Get(ctx, key)
	if errors.Is(err, cloud.ErrNotFound) {
		return ErrNoRemoteData
	}
	if err != nil {
		return remoteErr("download "+s.opts.Collection, err)
	}

	var v T
	if err := json.Unmarshal(doc.Value, &v); err != nil {
		return fmt.Errorf("decode remote %s: %w", s.opts.Collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(v)
	s.value = v
	s.version++
	s.setStatus(Status{Synced: true, SyncedAt: doc.UpdatedAt})
	s.logger.Info("Downloaded", "key", key, "updatedAt", doc.UpdatedAt)
	return nil
}
