package video

import (
	"strings"
	"testing"
)

// TestExtract_CanonicalID tests that an already-canonical ID passes through unchanged.
func TestExtract_CanonicalID(t *testing.T) {
	id, err := Extract("dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "dQw4w9WgXcQ" {
		t.Errorf("got %q, want %q", id, "dQw4w9WgXcQ")
	}
}

// TestExtract_RecognizedShapes tests all recognized URL shapes containing a valid ID.
func TestExtract_RecognizedShapes(t *testing.T) {
	cases := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"http://youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=5",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1",
	}
	for _, input := range cases {
		id, err := Extract(input)
		if err != nil {
			t.Errorf("Extract(%q): unexpected error: %v", input, err)
			continue
		}
		if id != "dQw4w9WgXcQ" {
			t.Errorf("Extract(%q) = %q, want %q", input, id, "dQw4w9WgXcQ")
		}
	}
}

// TestExtract_Invalid tests that unrecognized shapes and wrong-length segments are rejected.
func TestExtract_Invalid(t *testing.T) {
	cases := []string{
		"",
		"not a url",
		"https://vimeo.com/123456789",
		"https://www.youtube.com/watch?v=tooshort",
		"https://www.youtube.com/watch?v=twelvecharsXX",
		"https://youtu.be/short",
		"dQw4w9WgXc",                // 10 chars
		"dQw4w9WgXcQQ",              // 12 chars
		"dQw4w9WgXc!",               // invalid character
		"https://www.youtube.com/",  // no ID at all
		strings.Repeat("a", MaxRefLength+1),
	}
	for _, input := range cases {
		if id, err := Extract(input); err == nil {
			t.Errorf("Extract(%q) = %q, want error", input, id)
		}
	}
}

// TestExtract_NeverWrongLength tests that any successful extraction is exactly 11 characters.
func TestExtract_NeverWrongLength(t *testing.T) {
	inputs := []string{
		"abcABC123_-",
		"https://www.youtube.com/watch?v=abcABC123_-",
		"https://youtu.be/abcABC123_-",
		"https://www.youtube.com/embed/abcABC123_-",
	}
	for _, input := range inputs {
		id, err := Extract(input)
		if err != nil {
			t.Errorf("Extract(%q): unexpected error: %v", input, err)
			continue
		}
		if len(id) != IDLength {
			t.Errorf("Extract(%q) returned %d-char ID %q", input, len(id), id)
		}
	}
}

// TestExtract_Idempotent tests that re-extracting an extracted ID yields the same ID.
func TestExtract_Idempotent(t *testing.T) {
	id, err := Extract("https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := Extract(id)
	if err != nil {
		t.Fatalf("unexpected error on second pass: %v", err)
	}
	if again != id {
		t.Errorf("got %q, want %q", again, id)
	}
}

// TestThumbnailURL tests the fixed thumbnail template.
func TestThumbnailURL(t *testing.T) {
	got := ThumbnailURL("dQw4w9WgXcQ")
	want := "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestPreviewEmbedURL tests that the preview embed limits playback to the clip window.
func TestPreviewEmbedURL(t *testing.T) {
	got := PreviewEmbedURL("dQw4w9WgXcQ", 15)
	if !strings.Contains(got, "end=15") || !strings.Contains(got, "controls=0") {
		t.Errorf("preview URL missing clip window params: %q", got)
	}
}
