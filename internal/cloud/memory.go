package cloud

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]Document
	now  func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]Document{}, now: time.Now}
}

// Get returns a copy of the document under key.
func (m *MemoryStore) Get(ctx context.Context, key string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[key]
	if !ok {
		return Document{}, ErrNotFound
	}
	return clone(doc), nil
}

// Put stores a copy of doc stamped with the current time.
func (m *MemoryStore) Put(ctx context.Context, key string, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc = clone(doc)
	doc.UpdatedAt = m.now().UTC()
	m.docs[key] = doc
	return clone(doc), nil
}

func clone(d Document) Document {
	v := make([]byte, len(d.Value))
	copy(v, d.Value)
	return Document{Value: v, UpdatedAt: d.UpdatedAt}
}
