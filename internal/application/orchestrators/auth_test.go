package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"learninghub/internal/adapters/email"
	"learninghub/internal/domain/account"
)

// --- in-memory test doubles ---

type memAcctStore struct {
	accounts map[string]account.Account // keyed by email
}

func newMemAcctStore() *memAcctStore {
	return &memAcctStore{accounts: make(map[string]account.Account)}
}

// Save persists an account in memory.
// PRE: account has valid email
// POST: account is stored in memory map
func (s *memAcctStore) Save(_ context.Context, a account.Account) error {
	s.accounts[a.Email] = a
	return nil
}

// GetByEmail retrieves an account by email from memory.
// PRE: email is non-empty
// POST: returns account or error if not found
func (s *memAcctStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := s.accounts[email]
	if !ok {
		return account.Account{}, fmt.Errorf("not found")
	}
	return a, nil
}

// GetByID retrieves an account by ID from memory.
// PRE: id is non-empty
// POST: returns account or error if not found
func (s *memAcctStore) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("not found")
}

// Count returns the number of stored accounts.
func (s *memAcctStore) Count(_ context.Context) (int, error) {
	return len(s.accounts), nil
}

// recordingSender captures welcome emails instead of sending them.
type recordingSender struct {
	sent []email.SendRequest
	fail error
}

func (r *recordingSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if r.fail != nil {
		return email.SendResult{}, r.fail
	}
	r.sent = append(r.sent, req)
	return email.SendResult{MessageID: "msg-1"}, nil
}

func (r *recordingSender) SendBatch(ctx context.Context, reqs []email.SendRequest) ([]email.SendResult, error) {
	var results []email.SendResult
	for _, req := range reqs {
		res, err := r.Send(ctx, req)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// --- register tests ---

// TestRegister_CreatesAccountAndSendsWelcome verifies the happy path.
func TestRegister_CreatesAccountAndSendsWelcome(t *testing.T) {
	store := newMemAcctStore()
	sender := &recordingSender{}
	deps := RegisterDeps{AccountStore: store, EmailSender: sender, FromAddress: "LearningHub <noreply@learninghub.dev>"}

	id, err := ExecuteRegister(context.Background(), RegisterInput{
		Email:       "learner@example.com",
		Password:    "secret1",
		DisplayName: "Learner",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty account ID")
	}

	acct, ok := store.accounts["learner@example.com"]
	if !ok {
		t.Fatal("account not stored")
	}
	if err := acct.CheckPassword("secret1"); err != nil {
		t.Errorf("stored password does not verify: %v", err)
	}
	if acct.PasswordHash == "secret1" {
		t.Error("password stored in plaintext")
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 welcome email, got %d", len(sender.sent))
	}
	if sender.sent[0].To[0] != "learner@example.com" {
		t.Errorf("welcome email sent to %v", sender.sent[0].To)
	}
}

// TestRegister_DuplicateEmail verifies the uniqueness invariant.
func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMemAcctStore()
	deps := RegisterDeps{AccountStore: store}

	if _, err := ExecuteRegister(context.Background(), RegisterInput{Email: "a@b.co", Password: "secret1"}, deps); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := ExecuteRegister(context.Background(), RegisterInput{Email: "a@b.co", Password: "another1"}, deps)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

// TestRegister_ShortPassword verifies the 6-character minimum.
func TestRegister_ShortPassword(t *testing.T) {
	deps := RegisterDeps{AccountStore: newMemAcctStore()}
	_, err := ExecuteRegister(context.Background(), RegisterInput{Email: "a@b.co", Password: "12345"}, deps)
	if !errors.Is(err, account.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

// TestRegister_EmailFailureDoesNotBlock verifies registration survives a provider outage.
func TestRegister_EmailFailureDoesNotBlock(t *testing.T) {
	store := newMemAcctStore()
	sender := &recordingSender{fail: errors.New("provider down")}
	deps := RegisterDeps{AccountStore: store, EmailSender: sender}

	if _, err := ExecuteRegister(context.Background(), RegisterInput{Email: "a@b.co", Password: "secret1"}, deps); err != nil {
		t.Fatalf("registration failed because of email outage: %v", err)
	}
	if _, ok := store.accounts["a@b.co"]; !ok {
		t.Error("account not stored")
	}
}

// --- login tests ---

func seedAccount(t *testing.T, store *memAcctStore, email, password string) account.Account {
	t.Helper()
	acct := account.Account{ID: "acct-1", Email: email}
	if err := acct.SetPassword(password); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := store.Save(context.Background(), acct); err != nil {
		t.Fatalf("save: %v", err)
	}
	return acct
}

// TestLogin_Success verifies correct credentials yield account info.
func TestLogin_Success(t *testing.T) {
	store := newMemAcctStore()
	seedAccount(t, store, "a@b.co", "secret1")

	res, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@b.co", Password: "secret1"}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AccountID != "acct-1" || res.Email != "a@b.co" {
		t.Errorf("unexpected result: %+v", res)
	}
}

// TestLogin_WrongPassword verifies failed attempts are recorded.
func TestLogin_WrongPassword(t *testing.T) {
	store := newMemAcctStore()
	seedAccount(t, store, "a@b.co", "secret1")

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@b.co", Password: "nope123"}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.accounts["a@b.co"].FailedLogins != 1 {
		t.Errorf("failed login not recorded: %+v", store.accounts["a@b.co"])
	}
}

// TestLogin_LockoutAfterFiveFailures verifies the lockout policy end to end.
func TestLogin_LockoutAfterFiveFailures(t *testing.T) {
	store := newMemAcctStore()
	seedAccount(t, store, "a@b.co", "secret1")
	deps := LoginDeps{AccountStore: store}

	for i := 0; i < 5; i++ {
		_, _ = ExecuteLogin(context.Background(), LoginInput{Email: "a@b.co", Password: "nope123"}, deps)
	}

	// Even the correct password is refused while locked.
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@b.co", Password: "secret1"}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("expected ErrAccountLocked, got %v", err)
	}
}

// TestLogin_UnknownEmail verifies unknown emails read as invalid credentials.
func TestLogin_UnknownEmail(t *testing.T) {
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "ghost@b.co", Password: "secret1"}, LoginDeps{AccountStore: newMemAcctStore()})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// --- change password tests ---

// TestChangePassword_Success verifies the full change cycle.
func TestChangePassword_Success(t *testing.T) {
	store := newMemAcctStore()
	seedAccount(t, store, "a@b.co", "secret1")
	deps := ChangePasswordDeps{AccountStore: store}

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acct-1",
		CurrentPassword: "secret1",
		NewPassword:     "fresher1",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated := store.accounts["a@b.co"]
	if err := updated.CheckPassword("fresher1"); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
}

// TestChangePassword_WrongCurrent verifies the current password is required.
func TestChangePassword_WrongCurrent(t *testing.T) {
	store := newMemAcctStore()
	seedAccount(t, store, "a@b.co", "secret1")

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acct-1",
		CurrentPassword: "wrong12",
		NewPassword:     "fresher1",
	}, ChangePasswordDeps{AccountStore: store})
	if !errors.Is(err, ErrCurrentPasswordWrong) {
		t.Errorf("expected ErrCurrentPasswordWrong, got %v", err)
	}
}

// --- seed tests ---

// TestSeedAdmin_OnlyWhenEmpty verifies the admin is seeded exactly once.
func TestSeedAdmin_OnlyWhenEmpty(t *testing.T) {
	store := newMemAcctStore()
	deps := RegisterDeps{AccountStore: store}

	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@learninghub.dev", "admin-secret"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if len(store.accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(store.accounts))
	}
	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@learninghub.dev", "admin-secret"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(store.accounts) != 1 {
		t.Errorf("second seed created accounts: %d", len(store.accounts))
	}
}
