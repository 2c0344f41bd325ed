package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and throwaway environments.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any

	// FailWith, when set, makes every operation return that error. Tests use
	// it to simulate an unreachable store.
	FailWith error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

// List returns all documents in a collection, newest first by the named field.
// PRE: none
// POST: returns a snapshot; mutating it does not affect the store
func (s *MemoryStore) List(_ context.Context, collection, orderByDesc string) ([]Document, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for id, fields := range s.collections[collection] {
		docs = append(docs, Document{ID: id, Fields: cloneFields(fields)})
	}
	if orderByDesc != "" {
		sort.Slice(docs, func(i, j int) bool {
			return fieldTime(docs[i].Fields, orderByDesc).After(fieldTime(docs[j].Fields, orderByDesc))
		})
	}
	return docs, nil
}

// Create stores a new document under a fresh UUID.
// PRE: fields is non-nil
// POST: document is stored; returns its assigned ID
func (s *MemoryStore) Create(_ context.Context, collection string, fields map[string]any) (string, error) {
	if s.FailWith != nil {
		return "", s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]any)
	}
	id := uuid.New().String()
	s.collections[collection][id] = cloneFields(fields)
	return id, nil
}

// Update merges fields into an existing document.
// PRE: id was returned by Create
// POST: returns ErrNotFound if the ID does not resolve
func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

// Delete removes a document; deleting an absent ID succeeds.
// PRE: none
// POST: document with the given ID is absent
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func fieldTime(fields map[string]any, key string) time.Time {
	switch v := fields[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
