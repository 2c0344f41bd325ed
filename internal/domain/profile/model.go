package profile

import (
	"errors"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxDisplayNameLength = 100
	MaxAvatarURLLength   = 2048
	MaxBioLength         = 500
)

// PlaceholderAvatar is shown when the profile carries no avatar URL.
const PlaceholderAvatar = "https://via.placeholder.com/160"

// ErrMalformedDocument indicates a stored profile document that cannot be used.
var ErrMalformedDocument = errors.New("profile document is malformed")

// Profile holds the editable per-user profile. Profiles are canonically
// store-backed, one document per user in that user's sub-collection.
type Profile struct {
	DocID       string    `json:"docId"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
	Bio         string    `json:"bio"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the profile's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (p *Profile) Validate() error {
	if len(p.DisplayName) > MaxDisplayNameLength {
		return errors.New("display name cannot exceed 100 characters")
	}
	if len(p.AvatarURL) > MaxAvatarURLLength {
		return errors.New("avatar URL cannot exceed 2048 characters")
	}
	if len(p.Bio) > MaxBioLength {
		return errors.New("bio cannot exceed 500 characters")
	}
	return nil
}

// Avatar returns the avatar URL or the placeholder when unset.
// INVARIANT: Profile fields are not mutated
func (p *Profile) Avatar() string {
	if p.AvatarURL != "" {
		return p.AvatarURL
	}
	return PlaceholderAvatar
}

// FromDocument converts a raw profile document, filling defaults.
// PRE: docID is the store-assigned document ID
// POST: absent fields default to empty strings
func FromDocument(docID string, fields map[string]any) Profile {
	p := Profile{DocID: docID}
	if v, ok := fields["displayName"].(string); ok {
		p.DisplayName = v
	}
	if v, ok := fields["avatarUrl"].(string); ok {
		p.AvatarURL = v
	}
	if v, ok := fields["bio"].(string); ok {
		p.Bio = v
	}
	switch v := fields["updatedAt"].(type) {
	case time.Time:
		p.UpdatedAt = v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			p.UpdatedAt = t
		}
	}
	return p
}

// Fields flattens the profile into the document-store field map.
// INVARIANT: Profile fields are not mutated
func (p *Profile) Fields() map[string]any {
	return map[string]any{
		"displayName": p.DisplayName,
		"avatarUrl":   p.AvatarURL,
		"bio":         p.Bio,
		"updatedAt":   p.UpdatedAt,
	}
}
