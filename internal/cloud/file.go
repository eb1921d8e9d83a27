package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps each document as <dir>/<key>.json. It serves a shared or
// synced directory as the remote store, e.g. remote.url: file:///mnt/team.
type FileStore struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the document under key.
func (f *FileStore) Get(ctx context.Context, key string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", key, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}

// Put atomically replaces the document under key.
func (f *FileStore) Put(ctx context.Context, key string, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc.UpdatedAt = f.now().UTC()
	data, err := json.Marshal(doc)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return Document{}, fmt.Errorf("create %s: %w", f.dir, err)
	}

	path := f.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return Document{}, fmt.Errorf("put %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return Document{}, fmt.Errorf("put %s: %w", key, err)
	}
	return doc, nil
}
