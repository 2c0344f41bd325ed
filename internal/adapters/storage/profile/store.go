package profile

import (
	"context"

	domain "learninghub/internal/domain/profile"
)

// Store persists per-user profiles.
type Store interface {
	// Get returns the user's profile, or ok=false if none has been saved.
	Get(ctx context.Context, uid string) (domain.Profile, bool, error)
	// Save creates the profile document on first write and updates it after.
	Save(ctx context.Context, uid string, p domain.Profile) error
}
