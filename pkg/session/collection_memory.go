package session

import (
	"context"
	"slices"
	"sync"
)

// MemoryCollection implements Collection in process memory.
// Useful for tests and single-instance development setups.
type MemoryCollection struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryCollection creates an empty in-memory collection
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{
		docs: make(map[string]Document),
	}
}

// FindOne implements Collection
func (m *MemoryCollection) FindOne(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	doc, exists := m.docs[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	doc.Data = slices.Clone(doc.Data)
	return &doc, nil
}

// Upsert implements Collection
func (m *MemoryCollection) Upsert(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return ErrInvalidDocument
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *doc
	stored.Data = slices.Clone(doc.Data)
	m.docs[doc.ID] = stored
	return nil
}

// DeleteByID implements Collection
func (m *MemoryCollection) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, id)
	return nil
}

// DeleteOlderThan implements Collection
func (m *MemoryCollection) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, doc := range m.docs {
		if doc.LastModified < cutoff {
			delete(m.docs, id)
			removed++
		}
	}
	return removed, nil
}

// FindIDs implements Collection
func (m *MemoryCollection) FindIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

// EnsureIndex implements Collection. Memory scans need no index.
func (m *MemoryCollection) EnsureIndex(ctx context.Context) error {
	return nil
}

// Len returns the number of stored documents
func (m *MemoryCollection) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
