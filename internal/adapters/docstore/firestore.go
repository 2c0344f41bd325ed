package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore, the hosted document
// database the catalog was originally built against.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to Firestore for the given project.
// PRE: ctx carries credentials (ADC or emulator); projectID is non-empty
// POST: returns a ready store or an error if the client cannot be created
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// List returns all documents in a collection, ordered by the named field
// descending when orderByDesc is non-empty.
// PRE: collection is a valid (possibly slash-separated) collection path
// POST: returns the documents or a mapped boundary error
func (s *FirestoreStore) List(ctx context.Context, collection, orderByDesc string) ([]Document, error) {
	q := s.client.Collection(collection).Query
	if orderByDesc != "" {
		q = q.OrderBy(orderByDesc, firestore.Desc)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()
	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapFirestoreError(err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

// Create stores a new document; Firestore assigns the ID.
// PRE: fields contains Firestore-encodable values
// POST: document is persisted; returns the assigned ID
func (s *FirestoreStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", mapFirestoreError(err)
	}
	return ref.ID, nil
}

// Update replaces the fields of an existing document.
// PRE: id was assigned by Create
// POST: returns ErrNotFound if the ID no longer resolves
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return mapFirestoreError(err)
	}
	return nil
}

// Delete removes a document. Firestore deletes are idempotent: deleting an
// absent ID succeeds, which is exactly the contract callers rely on.
// PRE: none
// POST: document with the given ID is absent
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return mapFirestoreError(err)
	}
	return nil
}

func mapFirestoreError(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
