package course

import (
	"context"
	"log/slog"
	"time"

	"learninghub/internal/adapters/docstore"
	domain "learninghub/internal/domain/course"
	"learninghub/internal/domain/video"
)

// Repository implements Store over the external document store. All document
// validation and error mapping happens here; callers never see raw documents
// or transport errors.
type Repository struct {
	docs docstore.Store

	// timeNow is a variable for testability.
	timeNow func() time.Time
}

// NewRepository creates a course repository over the given document store.
func NewRepository(docs docstore.Store) *Repository {
	return &Repository{docs: docs, timeNow: time.Now}
}

// ListAll returns every course, newest-created first.
// PRE: none
// POST: returns docstore.ErrUnavailable if the store cannot be reached;
// malformed documents are skipped with a log line, never rendered and never
// fatal to the listing
func (r *Repository) ListAll(ctx context.Context) ([]domain.Course, error) {
	docs, err := r.docs.List(ctx, docstore.CoursesCollection, "createdAt")
	if err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(docs))
	for _, doc := range docs {
		c, err := domain.FromDocument(doc.ID, doc.Fields)
		if err != nil {
			slog.Warn("course_event", "event", "malformed_document", "id", doc.ID)
			continue
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// Create validates the submitted fields and stores a new course.
// PRE: none
// POST: on validation failure returns a *course.ValidationError and performs
// ZERO store calls; on success the stored videoId is the extracted canonical
// ID and the thumbnail is the fixed-template URL for it
func (r *Repository) Create(ctx context.Context, fields Fields) (string, error) {
	now := r.timeNow().UTC()
	c, err := r.build(fields, now, now)
	if err != nil {
		return "", err
	}
	id, err := r.docs.Create(ctx, docstore.CoursesCollection, c.Fields())
	if err != nil {
		return "", err
	}
	slog.Info("course_event", "event", "created", "id", id, "title", c.Title, "category", c.Category)
	return id, nil
}

// Update validates the submitted fields and merges them into an existing course.
// PRE: id was previously returned by Create
// POST: same validation as Create; returns docstore.ErrNotFound if the
// record vanished store-side
func (r *Repository) Update(ctx context.Context, id string, fields Fields) error {
	now := r.timeNow().UTC()
	c, err := r.build(fields, time.Time{}, now)
	if err != nil {
		return err
	}
	updated := c.Fields()
	// CreatedAt is immutable; only the writer of Create sets it.
	delete(updated, "createdAt")
	if err := r.docs.Update(ctx, docstore.CoursesCollection, id, updated); err != nil {
		return err
	}
	slog.Info("course_event", "event", "updated", "id", id, "title", c.Title)
	return nil
}

// Delete removes a course. Idempotent from the caller's perspective:
// deleting an already-deleted ID is treated as success, and the next listing
// simply omits it.
// PRE: none
// POST: the record no longer lists
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.docs.Delete(ctx, docstore.CoursesCollection, id); err != nil {
		return err
	}
	slog.Info("course_event", "event", "deleted", "id", id)
	return nil
}

// build maps form fields to a validated record, extracting the video ID from
// the raw reference and deriving the thumbnail.
func (r *Repository) build(fields Fields, createdAt, updatedAt time.Time) (domain.Course, error) {
	if fields.Title == "" {
		return domain.Course{}, domain.NewValidationError("title", domain.ErrEmptyTitle)
	}
	if fields.VideoRef == "" {
		return domain.Course{}, domain.NewValidationError("videoRef", domain.ErrMissingVideoRef)
	}
	videoID, err := video.Extract(fields.VideoRef)
	if err != nil {
		return domain.Course{}, domain.NewValidationError("videoRef", err)
	}
	c := domain.Course{
		Title:       fields.Title,
		Description: fields.Description,
		VideoID:     videoID,
		Thumbnail:   video.ThumbnailURL(videoID),
		Duration:    fields.Duration,
		Level:       fields.Level,
		Category:    fields.Category,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if err := c.Validate(); err != nil {
		return domain.Course{}, domain.NewValidationError("course", err)
	}
	return c, nil
}
