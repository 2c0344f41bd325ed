// Package docstore is the port to the external document database: a set of
// named collections of schemaless records keyed by opaque, store-assigned
// document IDs. The application consumes this interface; it never implements
// storage semantics of its own beyond the backends here.
package docstore

import (
	"context"
	"errors"
)

// Collection names used by the application.
const (
	CoursesCollection = "courses"
)

// Boundary error taxonomy. Raw transport errors from a backend are mapped to
// one of these before they reach application code.
var (
	// ErrNotFound indicates the document ID no longer resolves.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable indicates the store could not be reached; callers
	// degrade to an empty list plus a visible error, never crash.
	ErrUnavailable = errors.New("document store unavailable")
)

// Document is one schemaless record with its store-assigned ID.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store exposes per-record CRUD and ordered listing over named collections.
type Store interface {
	// List returns all documents in the collection, ordered by the named
	// field descending when orderByDesc is non-empty.
	List(ctx context.Context, collection, orderByDesc string) ([]Document, error)
	// Create stores a new document and returns its assigned ID.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Update merges the given fields into an existing document; fields not
	// named keep their stored values.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document. Deleting an absent ID is not an error.
	Delete(ctx context.Context, collection, id string) error
}

// UserProfilesCollection returns the per-user profile sub-collection name.
func UserProfilesCollection(uid string) string {
	return "users/" + uid + "/profiles"
}
