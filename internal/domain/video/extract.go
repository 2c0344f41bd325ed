package video

import (
	"errors"
	"fmt"
	"regexp"
)

// Max length for pasted video references.
const MaxRefLength = 2048

// IDLength is the length of a canonical YouTube video ID.
const IDLength = 11

// ErrInvalidRef indicates the input is neither a canonical video ID nor a
// recognized YouTube URL shape.
var ErrInvalidRef = errors.New("could not extract a video ID from the reference")

var (
	canonicalIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	youtubeIDRegex   = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})(?:[?&#]|$)`)
)

// Extract normalizes a pasted URL or raw identifier into a canonical
// 11-character video ID.
// PRE: none
// POST: returns the ID unchanged if input is already canonical; returns the
// 11-character segment for watch, youtu.be and embed URL shapes; returns
// ErrInvalidRef for everything else. Never returns a wrong-length ID.
func Extract(input string) (string, error) {
	if input == "" || len(input) > MaxRefLength {
		return "", ErrInvalidRef
	}
	if canonicalIDRegex.MatchString(input) {
		return input, nil
	}
	matches := youtubeIDRegex.FindStringSubmatch(input)
	if len(matches) < 2 {
		return "", ErrInvalidRef
	}
	return matches[1], nil
}

// ThumbnailURL returns the fixed-template thumbnail URL for a video ID.
// PRE: id is a canonical 11-character video ID
// POST: returns the maxresdefault thumbnail URL
func ThumbnailURL(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}

// EmbedURL returns the autoplaying embed URL used by the watch modal.
// PRE: id is a canonical 11-character video ID
func EmbedURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1", id)
}

// PreviewEmbedURL returns the embed URL used by the preview modal. The player
// is limited to the first window of the clip; the modal itself is closed by
// the preview timer.
// PRE: id is a canonical 11-character video ID; seconds > 0
func PreviewEmbedURL(id string, seconds int) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1&controls=0&start=0&end=%d", id, seconds)
}
