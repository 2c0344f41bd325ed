package course

import (
	"context"

	domain "learninghub/internal/domain/course"
)

// Fields carries the writable course fields as submitted by the admin form.
// VideoRef is the raw pasted URL or ID; the repository canonicalizes it. The
// thumbnail is always derived, never accepted from the caller.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoRef    string `json:"videoRef"`
	Duration    string `json:"duration"`
	Level       string `json:"level"`
	Category    string `json:"category"`
}

// Store persists Course records.
type Store interface {
	ListAll(ctx context.Context) ([]domain.Course, error)
	Create(ctx context.Context, fields Fields) (string, error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
}
