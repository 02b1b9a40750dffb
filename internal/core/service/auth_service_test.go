package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID    map[string]*domain.Account
	byEmail map[string]*domain.Account
	nextID  int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]*domain.Account),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, ok := r.byEmail[account.Email]; ok {
		return nil, domain.ErrAccountExists
	}
	r.nextID++
	clone := *account
	clone.ID = fmt.Sprintf("acc-%d", r.nextID)
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	return cloneAccount(&clone), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id, name, phone string, profile domain.Profile) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Name = name
	a.Phone = phone
	a.Profile = profile
	a.UpdatedAt = time.Now().UTC()
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.byID {
		if a.Role == role {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

// stubLimiter counts Allow calls and denies once remaining hits zero.
type stubLimiter struct {
	remaining int
	calls     int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	if l.remaining <= 0 {
		return false, nil
	}
	l.remaining--
	return true, nil
}

func newTestAuthService(repo ports.AccountRepository, provisionKey string, limiter RateLimiter) *AuthService {
	if limiter == nil {
		limiter = &stubLimiter{remaining: 1000}
	}
	codec := NewTokenCodec("test-secret", time.Hour, zerolog.Nop())
	return NewAuthService(repo, codec, provisionKey, limiter, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestRegisterStudent(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "", nil)

	account, err := svc.RegisterStudent(context.Background(), ports.RegisterInput{
		Email:    "  Jane.Doe@Example.COM ",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	if account.Email != "jane.doe@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", account.Email)
	}
	if account.Role != domain.RoleStudent {
		t.Errorf("Role = %q, want student", account.Role)
	}
	if account.Name != "jane.doe" {
		t.Errorf("Name = %q, want local part of email", account.Name)
	}
	if account.PasswordHash == "" || account.PasswordHash == "s3cret-pass" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterStudent_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "", nil)

	in := ports.RegisterInput{Email: "jane@example.com", Password: "s3cret-pass"}
	if _, err := svc.RegisterStudent(context.Background(), in); err != nil {
		t.Fatalf("first RegisterStudent: %v", err)
	}
	// Same address in different case must still collide.
	in.Email = "JANE@example.com"
	if _, err := svc.RegisterStudent(context.Background(), in); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("duplicate RegisterStudent = %v, want ErrAccountExists", err)
	}
}

func TestRegisterStudent_MissingFields(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), "", nil)

	cases := []ports.RegisterInput{
		{Email: "", Password: "s3cret-pass"},
		{Email: "jane@example.com", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.RegisterStudent(context.Background(), in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("RegisterStudent(%+v) = %v, want ErrInvalidCredentials", in, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Admin bootstrap
// ---------------------------------------------------------------------------

func TestRegisterAdmin(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "provision-key", nil)

	account, err := svc.RegisterAdmin(context.Background(), ports.RegisterAdminInput{
		RegisterInput: ports.RegisterInput{Email: "admin@edenz.com", Password: "s3cret-pass"},
		ProvisionKey:  "provision-key",
		RemoteAddr:    "203.0.113.9",
	})
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if account.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want admin", account.Role)
	}
}

func TestRegisterAdmin_BadKey(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), "provision-key", nil)

	_, err := svc.RegisterAdmin(context.Background(), ports.RegisterAdminInput{
		RegisterInput: ports.RegisterInput{Email: "admin@edenz.com", Password: "s3cret-pass"},
		ProvisionKey:  "wrong-key",
		RemoteAddr:    "203.0.113.9",
	})
	if !errors.Is(err, domain.ErrBadProvisionKey) {
		t.Fatalf("RegisterAdmin with wrong key = %v, want ErrBadProvisionKey", err)
	}
}

func TestRegisterAdmin_EmptyKeyDisablesBootstrap(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), "", nil)

	// Even an empty presented key must not match an empty configured key.
	_, err := svc.RegisterAdmin(context.Background(), ports.RegisterAdminInput{
		RegisterInput: ports.RegisterInput{Email: "admin@edenz.com", Password: "s3cret-pass"},
		ProvisionKey:  "",
		RemoteAddr:    "203.0.113.9",
	})
	if !errors.Is(err, domain.ErrBadProvisionKey) {
		t.Fatalf("RegisterAdmin with disabled bootstrap = %v, want ErrBadProvisionKey", err)
	}
}

func TestRegisterAdmin_RateLimited(t *testing.T) {
	limiter := &stubLimiter{remaining: 1}
	svc := newTestAuthService(newStubAccountRepo(), "provision-key", limiter)

	in := ports.RegisterAdminInput{
		RegisterInput: ports.RegisterInput{Email: "admin@edenz.com", Password: "s3cret-pass"},
		ProvisionKey:  "wrong-key",
		RemoteAddr:    "203.0.113.9",
	}
	if _, err := svc.RegisterAdmin(context.Background(), in); !errors.Is(err, domain.ErrBadProvisionKey) {
		t.Fatalf("first attempt = %v, want ErrBadProvisionKey", err)
	}
	if _, err := svc.RegisterAdmin(context.Background(), in); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("second attempt = %v, want ErrRateLimited", err)
	}
	if limiter.calls != 2 {
		t.Errorf("limiter calls = %d, want 2", limiter.calls)
	}
}

// ---------------------------------------------------------------------------
// Processing provisioning
// ---------------------------------------------------------------------------

func TestRegisterProcessing(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "", nil)

	account, err := svc.RegisterProcessing(context.Background(), "admin-1", domain.RoleAdmin, ports.RegisterProcessingInput{
		RegisterInput:  ports.RegisterInput{Email: "staff@edenz.com", Password: "s3cret-pass", Name: "Staff One"},
		ManagedRegions: []string{"UK", "Australia"},
	})
	if err != nil {
		t.Fatalf("RegisterProcessing: %v", err)
	}
	if account.Role != domain.RoleProcessing {
		t.Errorf("Role = %q, want processing", account.Role)
	}
	if len(account.ManagedRegions) != 2 {
		t.Errorf("ManagedRegions = %v, want 2 regions persisted", account.ManagedRegions)
	}
	if account.CreatedBy != "admin-1" {
		t.Errorf("CreatedBy = %q, want admin-1", account.CreatedBy)
	}
}

func TestRegisterProcessing_NonAdminDenied(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), "", nil)

	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleProcessing} {
		_, err := svc.RegisterProcessing(context.Background(), "actor-1", role, ports.RegisterProcessingInput{
			RegisterInput: ports.RegisterInput{Email: "staff@edenz.com", Password: "s3cret-pass"},
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("RegisterProcessing as %s = %v, want ErrForbidden", role, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Login and token resolution
// ---------------------------------------------------------------------------

func TestLogin(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "", nil)

	registered, err := svc.RegisterStudent(context.Background(), ports.RegisterInput{
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}

	token, account, err := svc.Login(context.Background(), "jane@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("Login returned an empty token")
	}
	if account.ID != registered.ID {
		t.Errorf("account ID = %q, want %q", account.ID, registered.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "", nil)

	if _, err := svc.RegisterStudent(context.Background(), ports.RegisterInput{
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "jane@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Login with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmailMasked(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), "", nil)

	// An unknown address must be indistinguishable from a wrong password.
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Login for unknown account = %v, want ErrInvalidCredentials", err)
	}
}

func TestResolve(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "", nil)

	registered, err := svc.RegisterStudent(context.Background(), ports.RegisterInput{
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "jane@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	account, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account.ID != registered.ID {
		t.Errorf("resolved ID = %q, want %q", account.ID, registered.ID)
	}
}

func TestResolve_DeletedAccount(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, "", nil)

	registered, err := svc.RegisterStudent(context.Background(), ports.RegisterInput{
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	token, _, err := svc.Login(context.Background(), "jane@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Remove the account: the still-valid token must now be rejected.
	delete(repo.byID, registered.ID)
	delete(repo.byEmail, registered.Email)

	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("Resolve for deleted account = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Fatal("malformed stored hash must verify as mismatch")
	}
}
