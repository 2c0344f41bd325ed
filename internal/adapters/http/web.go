package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"learninghub/internal/adapters/email"
	"learninghub/internal/adapters/http/middleware"
	accountStore "learninghub/internal/adapters/storage/account"
	courseStore "learninghub/internal/adapters/storage/course"
	profileStore "learninghub/internal/adapters/storage/profile"
	"learninghub/internal/application/player"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	CourseStore  courseStore.Store
	ProfileStore profileStore.Store
}

// Config holds the request-independent settings the handlers need.
type Config struct {
	// AdminEmail is the single address granted admin access. Empty means
	// the admin panel is unreachable.
	AdminEmail string
}

// loadCSRFKey reads the CSRF secret from LEARNINGHUB_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("LEARNINGHUB_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("LEARNINGHUB_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("LEARNINGHUB_ENV") == "production" {
		log.Fatal("LEARNINGHUB_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set LEARNINGHUB_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global config instance (set by NewMux)
var config Config

// Global session store instance
var sessions *middleware.SessionStore

// Global preview manager instance (set by NewMux)
var previews *player.Manager

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from string) {
	emailSender = sender
	emailFromAddress = from
}

// auditAuthEvent records every session transition in the auth audit log.
func auditAuthEvent(ev middleware.AuthEvent) {
	slog.Info("auth_event", "event", "session_"+ev.Kind, "email", ev.Email, "account_id", ev.AccountID)
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, cfg Config) http.Handler {
	stores = s
	config = cfg
	sessions = middleware.NewSessionStore()
	sessions.Subscribe(auditAuthEvent)
	previews = player.NewManager()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
