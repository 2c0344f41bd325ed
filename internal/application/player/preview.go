package player

import (
	"sync"
	"time"
)

// PreviewDuration is how long a preview plays before it closes itself.
const PreviewDuration = 15 * time.Second

// preview is one session's active preview.
type preview struct {
	videoID    string
	generation uint64
	timer      *time.Timer
}

// Manager tracks at most one active preview per session and closes it after
// the preview duration. Starting a new preview first cancels the pending
// close of the old one, so an auto-close never fires against the wrong video.
// INVARIANT: per session there is at most one pending close timer
type Manager struct {
	mu       sync.Mutex
	active   map[string]*preview
	duration time.Duration

	// gen is a monotonic counter across all previews. A timer that fired for
	// an older generation can never match a later preview, even after the
	// session's entry was closed and recreated.
	gen uint64

	// onAutoClose is invoked after a preview expires on its own. Hook for
	// observers; never called for explicit Close or replacement.
	onAutoClose func(sessionID, videoID string)
}

// NewManager creates a preview manager with the standard duration.
func NewManager() *Manager {
	return NewManagerWithDuration(PreviewDuration)
}

// NewManagerWithDuration creates a preview manager with a custom duration.
// Short durations keep timing-sensitive tests fast.
func NewManagerWithDuration(d time.Duration) *Manager {
	return &Manager{active: make(map[string]*preview), duration: d}
}

// SetAutoCloseHook registers the expiry callback.
// PRE: called before any Start
func (m *Manager) SetAutoCloseHook(fn func(sessionID, videoID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoClose = fn
}

// Start begins a preview for the session, replacing any active one.
// PRE: sessionID and videoID are non-empty
// POST: exactly one close timer is pending for the session; any previous
// timer is stopped before the new one is armed
func (m *Manager) Start(sessionID, videoID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.active[sessionID]; ok {
		prev.timer.Stop()
	}

	m.gen++
	p := &preview{videoID: videoID, generation: m.gen}
	m.active[sessionID] = p

	gen := p.generation
	p.timer = time.AfterFunc(m.duration, func() {
		m.expire(sessionID, gen)
	})
}

// Close ends the session's preview, if any. Safe to call when nothing is
// playing; closing an already-closed preview is a no-op.
// POST: no close timer is pending for the session
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.active[sessionID]; ok {
		p.timer.Stop()
		delete(m.active, sessionID)
	}
}

// Active returns the video ID of the session's current preview.
func (m *Manager) Active(sessionID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.active[sessionID]
	if !ok {
		return "", false
	}
	return p.videoID, true
}

// expire is the timer callback. The generation check discards a stale fire
// that lost the race with a replacement Start.
func (m *Manager) expire(sessionID string, generation uint64) {
	m.mu.Lock()
	p, ok := m.active[sessionID]
	if !ok || p.generation != generation {
		m.mu.Unlock()
		return
	}
	delete(m.active, sessionID)
	hook := m.onAutoClose
	videoID := p.videoID
	m.mu.Unlock()

	if hook != nil {
		hook(sessionID, videoID)
	}
}
