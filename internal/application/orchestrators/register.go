package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	emailAdapter "learninghub/internal/adapters/email"
	"learninghub/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForRegister defines the store interface needed by Register.
type AccountStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// RegisterInput carries input for the registration orchestrator.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	AccountStore AccountStoreForRegister
	EmailSender  emailAdapter.Sender
	FromAddress  string
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteRegister coordinates self-service account creation.
// PRE: Valid email, password >= 6 chars
// POST: Account created with hashed password; welcome email sent best-effort
// INVARIANT: Email must be unique
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (string, error) {
	if input.Email == "" {
		return "", account.ErrEmptyEmail
	}
	if input.Password == "" {
		return "", account.ErrEmptyPassword
	}

	// Check if email already exists
	_, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err == nil {
		return "", ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:          uuid.New().String(),
		Email:       input.Email,
		DisplayName: input.DisplayName,
		CreatedAt:   time.Now(),
	}

	// Validate domain rules
	if err := acct.Validate(); err != nil {
		return "", err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	// Save to store
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email)

	// Welcome email is best-effort: a provider outage never blocks registration.
	if deps.EmailSender != nil {
		req := emailAdapter.SendRequest{
			To:      []string{acct.Email},
			From:    deps.FromAddress,
			Subject: "Welcome to LearningHub",
			HTML:    welcomeBody(acct),
		}
		if _, err := deps.EmailSender.Send(ctx, req); err != nil {
			slog.Warn("auth_event", "event", "welcome_email_failed", "email", acct.Email, "error", err)
		}
	}

	return acct.ID, nil
}

// welcomeBody renders the welcome email for a fresh account.
func welcomeBody(acct account.Account) string {
	name := acct.DisplayName
	if name == "" {
		name = acct.Email
	}
	return "<p>Hi " + name + ",</p>" +
		"<p>Your LearningHub account is ready. Sign in to browse the course catalog and start watching.</p>"
}

// ExecuteSeedAdmin creates the administrator account if no accounts exist.
// The admin is an ordinary account; its privileges come from matching the
// configured admin email at request time, not from anything stored here.
// PRE: Database is initialized
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps RegisterDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Accounts already exist, skip seeding
	}

	_, err = ExecuteRegister(ctx, RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: "Administrator",
	}, RegisterDeps{AccountStore: deps.AccountStore})
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
