package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the key/value bucket used when none is configured.
const DefaultBucket = "SHIFTSYNC"

// KVOptions configures the connection to a NATS JetStream key/value bucket.
type KVOptions struct {
	URL string
	// Bucket defaults to DefaultBucket.
	Bucket string
	// Credentials is an optional NATS .creds file.
	Credentials string
	// Token is an optional auth token.
	Token   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// KVStore keeps documents in a JetStream key/value bucket. It connects on
// first use, so commands that never touch the remote store work offline.
type KVStore struct {
	opts KVOptions

	mu sync.Mutex
	nc *nats.Conn
	kv jetstream.KeyValue
}

// NewKVStore returns an unconnected KVStore.
func NewKVStore(opts KVOptions) *KVStore {
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &KVStore{opts: opts}
}

func (s *KVStore) bucket(ctx context.Context) (jetstream.KeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != nil {
		return s.kv, nil
	}

	natsOpts := []nats.Option{
		nats.Name("shiftsync"),
		nats.Timeout(s.opts.Timeout),
	}
	if s.opts.Credentials != "" {
		natsOpts = append(natsOpts, nats.UserCredentials(s.opts.Credentials))
	}
	if s.opts.Token != "" {
		natsOpts = append(natsOpts, nats.Token(s.opts.Token))
	}

	nc, err := nats.Connect(s.opts.URL, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	// CreateOrUpdateKeyValue is idempotent, so every client can call it.
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      s.opts.Bucket,
		Description: "shiftsync user collections",
		History:     5,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open bucket %s: %w", s.opts.Bucket, err)
	}

	s.opts.Logger.Debug("Connected to remote store", "url", s.opts.URL, "bucket", s.opts.Bucket)
	s.nc, s.kv = nc, kv
	return kv, nil
}

// Get reads the document under key. UpdatedAt is the time the server stored
// the entry.
func (s *KVStore) Get(ctx context.Context, key string) (Document, error) {
	kv, err := s.bucket(ctx)
	if err != nil {
		return Document{}, err
	}
	entry, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("get %s: %w", key, err)
	}

	var doc Document
	if err := json.Unmarshal(entry.Value(), &doc); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", key, err)
	}
	doc.UpdatedAt = entry.Created().UTC()
	return doc, nil
}

// Put replaces the document under key.
func (s *KVStore) Put(ctx context.Context, key string, doc Document) (Document, error) {
	kv, err := s.bucket(ctx)
	if err != nil {
		return Document{}, err
	}
	doc.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(doc)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s: %w", key, err)
	}
	rev, err := kv.Put(ctx, key, data)
	if err != nil {
		return Document{}, fmt.Errorf("put %s: %w", key, err)
	}
	s.opts.Logger.Debug("Stored document", "key", key, "revision", rev, "bytes", len(data))
	return doc, nil
}

// Close drains the connection, if one was opened.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nc == nil {
		return nil
	}
	err := s.nc.Drain()
	s.nc, s.kv = nil, nil
	return err
}
