package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub auth service

type stubAuthService struct {
	registered *ports.RegisterInput
	loginEmail string
	loginPass  string
	err        error
}

func (s *stubAuthService) account(email string) *domain.Account {
	return &domain.Account{
		ID:        "acc-1",
		Email:     email,
		Name:      "Jane",
		Role:      domain.RoleStudent,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *stubAuthService) RegisterStudent(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.registered = &in
	return s.account(in.Email), nil
}

func (s *stubAuthService) RegisterAdmin(_ context.Context, in ports.RegisterAdminInput) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.registered = &in.RegisterInput
	a := s.account(in.Email)
	a.Role = domain.RoleAdmin
	return a, nil
}

func (s *stubAuthService) RegisterProcessing(_ context.Context, _ string, actorRole domain.Role, in ports.RegisterProcessingInput) (*domain.Account, error) {
	if actorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	s.registered = &in.RegisterInput
	a := s.account(in.Email)
	a.Role = domain.RoleProcessing
	return a, nil
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, *domain.Account, error) {
	if email != s.loginEmail || password != s.loginPass {
		return "", nil, domain.ErrInvalidCredentials
	}
	return "signed-token", s.account(email), nil
}

func (s *stubAuthService) Resolve(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrInvalidToken
}

func newEchoContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// ---------------------------------------------------------------------------
// Register

func TestAuthHandler_RegisterStudent(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newEchoContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane","phone":"+92 300 1234567"}`)
	if err := h.RegisterStudent(c); err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if svc.registered == nil || svc.registered.Email != "jane@example.com" {
		t.Fatalf("service input = %+v", svc.registered)
	}

	var resp struct {
		Token   string `json:"token"`
		Account struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"account"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Account.Role != "student" || resp.Account.Email != "jane@example.com" {
		t.Errorf("account = %+v", resp.Account)
	}
	if resp.Token != "" {
		t.Errorf("register must not return a token, got %q", resp.Token)
	}
}

func TestAuthHandler_RegisterStudent_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := map[string]string{
		"missing email":  `{"password":"s3cret-pass"}`,
		"bad email":      `{"email":"not-an-email","password":"s3cret-pass"}`,
		"short password": `{"email":"jane@example.com","password":"short"}`,
	}
	for name, body := range cases {
		c, _ := newEchoContext(t, http.MethodPost, "/v1/auth/register", body)
		err := h.RegisterStudent(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("%s: err = %v, want 400", name, err)
		}
	}
}

func TestAuthHandler_RegisterStudent_Duplicate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrAccountExists})

	c, _ := newEchoContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"jane@example.com","password":"s3cret-pass"}`)
	// Service errors pass through untouched; the central error handler maps
	// them to status codes.
	if err := h.RegisterStudent(c); !errors.Is(err, domain.ErrAccountExists) {
		t.Errorf("err = %v, want ErrAccountExists", err)
	}
}

func TestAuthHandler_RegisterAdmin_RequiresKey(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newEchoContext(t, http.MethodPost, "/v1/auth/register-admin",
		`{"email":"boss@edenz.com","password":"s3cret-pass"}`)
	err := h.RegisterAdmin(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 for missing provision_key", err)
	}
}

func TestAuthHandler_RegisterProcessing(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newEchoContext(t, http.MethodPost, "/v1/auth/register-processing",
		`{"email":"staff@edenz.com","password":"s3cret-pass","managed_regions":["UK","Australia"]}`)
	c.Set("account", &domain.Account{ID: "admin-1", Role: domain.RoleAdmin})

	if err := h.RegisterProcessing(c); err != nil {
		t.Fatalf("RegisterProcessing: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestAuthHandler_RegisterProcessing_NoAccount(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newEchoContext(t, http.MethodPost, "/v1/auth/register-processing",
		`{"email":"staff@edenz.com","password":"s3cret-pass"}`)
	err := h.RegisterProcessing(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 without an authenticated account", err)
	}
}

// ---------------------------------------------------------------------------
// Login / Me

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{loginEmail: "jane@example.com", loginPass: "s3cret-pass"}
	h := NewAuthHandler(svc)

	c, rec := newEchoContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"jane@example.com","password":"s3cret-pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Errorf("token = %q", resp.Token)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	svc := &stubAuthService{loginEmail: "jane@example.com", loginPass: "s3cret-pass"}
	h := NewAuthHandler(svc)

	c, _ := newEchoContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"jane@example.com","password":"wrong-pass"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newEchoContext(t, http.MethodGet, "/v1/auth/me", "")
	c.Set("account", &domain.Account{
		ID:        "acc-1",
		Email:     "jane@example.com",
		Role:      domain.RoleStudent,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}

	var resp struct {
		ID        string `json:"id"`
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Errorf("id = %q", resp.ID)
	}
	if resp.CreatedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("created_at = %q", resp.CreatedAt)
	}
}
