package course

import (
	"errors"
	"time"

	"learninghub/internal/domain/video"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxFreeTextLength    = 100
)

// Known dashboard categories. A record whose category is not in this list
// renders in no grid; that is an accepted limitation, not an error.
var KnownCategories = []string{
	"featured",
	"cybersecurity",
	"programming",
	"ai",
	"networking",
	"webdev",
	"datascience",
}

// Domain errors
var (
	ErrEmptyTitle      = errors.New("course title cannot be empty")
	ErrTitleTooLong    = errors.New("course title cannot exceed 200 characters")
	ErrInvalidVideoID  = errors.New("course video ID must be exactly 11 characters")
	ErrMissingVideoRef = errors.New("a video link or ID is required")
)

// Course is a catalog record. The ID is assigned by the document store on
// creation and is immutable for the record's lifetime.
// INVARIANT: VideoID is either empty or a canonical 11-character video ID.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoID     string    `json:"videoId"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    string    `json:"duration"`
	Level       string    `json:"level"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the course's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (c *Course) Validate() error {
	if c.Title == "" {
		return ErrEmptyTitle
	}
	if len(c.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return errors.New("course description cannot exceed 2000 characters")
	}
	if len(c.Duration) > MaxFreeTextLength || len(c.Level) > MaxFreeTextLength || len(c.Category) > MaxFreeTextLength {
		return errors.New("course classification fields cannot exceed 100 characters")
	}
	if c.VideoID != "" {
		if _, err := video.Extract(c.VideoID); err != nil || len(c.VideoID) != video.IDLength {
			return ErrInvalidVideoID
		}
	}
	return nil
}

// Playable returns true if the record carries a valid video ID. Records
// without one still render, with a "content unavailable" indicator.
// INVARIANT: Course fields are not mutated
func (c *Course) Playable() bool {
	return len(c.VideoID) == video.IDLength
}

// ThumbnailURL returns the stored thumbnail, or synthesizes one from the
// video ID via the fixed template when absent at render time.
// INVARIANT: Course fields are not mutated; Thumbnail is never re-derived
// into VideoID
func (c *Course) ThumbnailURL() string {
	if c.Thumbnail != "" {
		return c.Thumbnail
	}
	if c.Playable() {
		return video.ThumbnailURL(c.VideoID)
	}
	return ""
}
