package course

import (
	"errors"
	"time"
)

// ErrMalformedDocument indicates a stored document that cannot be rendered
// even with defaults filled in.
var ErrMalformedDocument = errors.New("course document is malformed")

// FromDocument converts a raw schemaless document into a Course, filling
// defaults for absent fields. This is the single boundary where duck-typed
// store data becomes a typed record; rendering code never sees raw documents.
// PRE: id is the store-assigned document ID
// POST: returns ErrMalformedDocument if the document has no usable title;
// a record with a missing or invalid video ID is returned with VideoID ""
// (it still renders, flagged unavailable), never dropped
func FromDocument(id string, fields map[string]any) (Course, error) {
	c := Course{
		ID:          id,
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		VideoID:     stringField(fields, "videoId"),
		Thumbnail:   stringField(fields, "thumbnail"),
		Duration:    stringField(fields, "duration"),
		Level:       stringField(fields, "level"),
		Category:    stringField(fields, "category"),
		CreatedAt:   timeField(fields, "createdAt"),
		UpdatedAt:   timeField(fields, "updatedAt"),
	}
	if c.Title == "" {
		return Course{}, ErrMalformedDocument
	}
	if c.VideoID != "" {
		if err := (&Course{Title: c.Title, VideoID: c.VideoID}).Validate(); err != nil {
			c.VideoID = ""
		}
	}
	return c, nil
}

// Fields flattens the course into the document-store field map. The ID is
// carried by the store, not the fields.
// INVARIANT: Course fields are not mutated
func (c *Course) Fields() map[string]any {
	return map[string]any{
		"title":       c.Title,
		"description": c.Description,
		"videoId":     c.VideoID,
		"thumbnail":   c.Thumbnail,
		"duration":    c.Duration,
		"level":       c.Level,
		"category":    c.Category,
		"createdAt":   c.CreatedAt,
		"updatedAt":   c.UpdatedAt,
	}
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func timeField(fields map[string]any, key string) time.Time {
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
