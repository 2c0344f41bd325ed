package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"learninghub/internal/adapters/docstore"
	emailPkg "learninghub/internal/adapters/email"
	web "learninghub/internal/adapters/http"
	accountStore "learninghub/internal/adapters/storage/account"
	courseStore "learninghub/internal/adapters/storage/course"
	profileStore "learninghub/internal/adapters/storage/profile"
	"learninghub/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx := context.Background()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("LEARNINGHUB_DB", "learninghub.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	acctStore, err := accountStore.NewSQLiteStore(db)
	if err != nil {
		log.Fatalf("failed to initialize account store: %v", err)
	}

	// Course and profile documents live in a pluggable document store:
	// Firestore when a project is configured, SQLite otherwise.
	docs, err := openDocStore(ctx, db)
	if err != nil {
		log.Fatalf("failed to initialize document store: %v", err)
	}

	stores := &web.Stores{
		AccountStore: acctStore,
		CourseStore:  courseStore.NewRepository(docs),
		ProfileStore: profileStore.NewRepository(docs),
	}

	// The admin address doubles as the seeded first account.
	adminEmail := envOrDefault("LEARNINGHUB_ADMIN_EMAIL", "admin@learninghub.dev")
	adminPassword := envOrDefault("LEARNINGHUB_ADMIN_PASSWORD", "change-me-now")
	seedDeps := orchestrators.RegisterDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("LEARNINGHUB_RESEND_KEY")
	emailFrom := envOrDefault("LEARNINGHUB_RESEND_FROM", "LearningHub <noreply@learninghub.dev>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom)
		if os.Getenv("LEARNINGHUB_ENV") == "production" {
			log.Println("WARNING: LEARNINGHUB_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set LEARNINGHUB_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware
	mux := web.NewMux("static", stores, web.Config{AdminEmail: adminEmail})

	// Start server
	addr := envOrDefault("LEARNINGHUB_ADDR", ":8080")
	log.Printf("LearningHub %s starting on %s (env=%s)", version, addr, envOrDefault("LEARNINGHUB_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// openDocStore selects the document store backend. A configured Firestore
// project wins; the SQLite fallback keeps single-node deployments
// dependency-free.
func openDocStore(ctx context.Context, db *sql.DB) (docstore.Store, error) {
	if projectID := os.Getenv("LEARNINGHUB_FIRESTORE_PROJECT"); projectID != "" {
		log.Printf("Document store: Firestore (project=%s)", projectID)
		return docstore.NewFirestoreStore(ctx, projectID)
	}
	log.Println("Document store: SQLite")
	return docstore.NewSQLiteStore(db)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
