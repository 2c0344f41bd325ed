package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const accountContextKey contextKey = "account"

// Session represents an authenticated session. There is no stored role:
// administrator status is recomputed per request by comparing Email against
// the configured admin address.
type Session struct {
	Token       string
	AccountID   string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// AuthEvent describes one auth-state transition.
type AuthEvent struct {
	Kind      string // "signed_in" or "signed_out"
	AccountID string
	Email     string
	At        time.Time
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]Session
	subscribers []func(AuthEvent)
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
	}
}

// Subscribe registers a listener for auth-state transitions. The listener is
// called synchronously with a signed_in event for every currently live
// session, then for each later sign-in, sign-out, and expiry.
// INVARIANT: listeners run outside the store lock
func (ss *SessionStore) Subscribe(fn func(AuthEvent)) {
	ss.mu.Lock()
	ss.subscribers = append(ss.subscribers, fn)
	current := make([]Session, 0, len(ss.sessions))
	for _, s := range ss.sessions {
		current = append(current, s)
	}
	ss.mu.Unlock()
	for _, s := range current {
		fn(AuthEvent{Kind: "signed_in", AccountID: s.AccountID, Email: s.Email, At: s.CreatedAt})
	}
}

// notify delivers an event to all subscribers. Must be called without the lock held.
func (ss *SessionStore) notify(ev AuthEvent) {
	ss.mu.RLock()
	subs := ss.subscribers
	ss.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Create stores a new session and returns the token.
// PRE: accountID and email are non-empty
// POST: Session is stored, token is returned, subscribers see signed_in
func (ss *SessionStore) Create(accountID, email, displayName string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	ss.mu.Lock()
	ss.sessions[token] = Session{
		Token:       token,
		AccountID:   accountID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
	}
	ss.mu.Unlock()
	ss.notify(AuthEvent{Kind: "signed_in", AccountID: accountID, Email: email, At: now})
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	session, ok := ss.sessions[token]
	if !ok {
		ss.mu.Unlock()
		return Session{}, false
	}
	// Sessions expire after 24 hours
	if time.Since(session.CreatedAt) > 24*time.Hour {
		delete(ss.sessions, token)
		ss.mu.Unlock()
		ss.notify(AuthEvent{Kind: "signed_out", AccountID: session.AccountID, Email: session.Email, At: time.Now()})
		return Session{}, false
	}
	ss.mu.Unlock()
	return session, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed, subscribers see signed_out
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	session, ok := ss.sessions[token]
	delete(ss.sessions, token)
	ss.mu.Unlock()
	if ok {
		ss.notify(AuthEvent{Kind: "signed_out", AccountID: session.AccountID, Email: session.Email, At: time.Now()})
	}
}

const sessionCookieName = "learninghub_session"

// Auth returns middleware that extracts the session from the cookie and sets the account in context.
// It does NOT block unauthenticated requests — use RequireAuth or RequireAdmin for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), accountContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns middleware that admits only the configured admin
// account. Non-admin users are redirected away before any admin content is
// produced; the check runs on every request, never cached in the session.
func RequireAdmin(adminEmail string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !emailMatches(session.Email, adminEmail) {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(accountContextKey).(Session)
	return session, ok
}

// IsAdmin reports whether the current session belongs to the configured
// admin. An empty configured address means no account is admin.
func IsAdmin(ctx context.Context, adminEmail string) bool {
	session, ok := GetSessionFromContext(ctx)
	if !ok {
		return false
	}
	return emailMatches(session.Email, adminEmail)
}

// emailMatches compares addresses case-insensitively.
func emailMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return strings.EqualFold(got, want)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   false, // Allow HTTP for local development
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400, // 24 hours
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionTokenFromRequest returns the raw session token, if present.
func SessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, accountContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
