package profile

import (
	"context"
	"log/slog"
	"time"

	"learninghub/internal/adapters/docstore"
	domain "learninghub/internal/domain/profile"
)

// Repository implements Store over the document store, one sub-collection
// per user. Only the first document in the sub-collection is meaningful; the
// original data model allows several but reads the first.
type Repository struct {
	docs docstore.Store

	timeNow func() time.Time
}

// NewRepository creates a profile repository over the given document store.
func NewRepository(docs docstore.Store) *Repository {
	return &Repository{docs: docs, timeNow: time.Now}
}

// Get returns the user's stored profile.
// PRE: uid is non-empty
// POST: ok=false when the user has never saved a profile
func (r *Repository) Get(ctx context.Context, uid string) (domain.Profile, bool, error) {
	docs, err := r.docs.List(ctx, docstore.UserProfilesCollection(uid), "")
	if err != nil {
		return domain.Profile{}, false, err
	}
	if len(docs) == 0 {
		return domain.Profile{}, false, nil
	}
	return domain.FromDocument(docs[0].ID, docs[0].Fields), true, nil
}

// Save validates and persists the profile, creating the document on first
// write and merging into it thereafter.
// PRE: uid is non-empty
// POST: a subsequent Get returns the saved values
func (r *Repository) Save(ctx context.Context, uid string, p domain.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = r.timeNow().UTC()

	existing, ok, err := r.Get(ctx, uid)
	if err != nil {
		return err
	}
	collection := docstore.UserProfilesCollection(uid)
	if !ok {
		id, err := r.docs.Create(ctx, collection, p.Fields())
		if err != nil {
			return err
		}
		slog.Info("profile_event", "event", "created", "uid", uid, "doc", id)
		return nil
	}
	if err := r.docs.Update(ctx, collection, existing.DocID, p.Fields()); err != nil {
		return err
	}
	slog.Info("profile_event", "event", "updated", "uid", uid, "doc", existing.DocID)
	return nil
}
