package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edenzconsult/crm-backend/internal/api/metrics"
	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// bcryptCost is fixed; do not lower it to speed up tests — tests use their
// own short passwords and absorb the cost.
const bcryptCost = 12

// RateLimiter throttles the admin bootstrap path. Allow reports whether the
// caller identified by key may proceed within the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AuthService implements registration, login and token resolution over the
// unified accounts collection.
type AuthService struct {
	repo         ports.AccountRepository
	codec        *TokenCodec
	provisionKey string
	limiter      RateLimiter
	log          zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, codec *TokenCodec, provisionKey string, limiter RateLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:         repo,
		codec:        codec,
		provisionKey: provisionKey,
		limiter:      limiter,
		log:          log,
	}
}

// HashPassword produces a bcrypt hash with the service-wide cost.
func HashPassword(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword fails closed: a malformed stored hash is treated as a
// mismatch, never an error.
func VerifyPassword(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

func (s *AuthService) RegisterStudent(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	account, err := s.register(ctx, in, domain.RoleStudent, "", nil)
	if err != nil {
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleStudent)).Inc()
	return account, nil
}

// RegisterAdmin is the bootstrap path: no token is required, only the
// out-of-band provisioning key. It is the highest-privilege escalation path
// in the system, so it is rate limited per caller address and always logged.
func (s *AuthService) RegisterAdmin(ctx context.Context, in ports.RegisterAdminInput) (*domain.Account, error) {
	ok, err := s.limiter.Allow(ctx, "admin-register:"+in.RemoteAddr)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.BootstrapThrottledTotal.Inc()
		s.log.Warn().Str("remote_addr", in.RemoteAddr).Msg("admin bootstrap rate limited")
		return nil, domain.ErrRateLimited
	}

	if s.provisionKey == "" ||
		subtle.ConstantTimeCompare([]byte(in.ProvisionKey), []byte(s.provisionKey)) != 1 {
		s.log.Warn().Str("remote_addr", in.RemoteAddr).Msg("admin bootstrap with bad provisioning key")
		return nil, domain.ErrBadProvisionKey
	}

	account, err := s.register(ctx, in.RegisterInput, domain.RoleAdmin, "", nil)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Str("remote_addr", in.RemoteAddr).Msg("admin account provisioned")
	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleAdmin)).Inc()
	return account, nil
}

func (s *AuthService) RegisterProcessing(ctx context.Context, actorID string, actorRole domain.Role, in ports.RegisterProcessingInput) (*domain.Account, error) {
	actor := authz.Actor{ID: actorID, Role: actorRole}
	if d := authz.CanProvision(actor, domain.RoleProcessing); !d.Allowed {
		metrics.AuthzDecisionsTotal.WithLabelValues("deny", string(authz.KindAccount)).Inc()
		s.log.Info().Str("actor_id", actorID).Str("reason", d.Reason).Msg("processing provisioning denied")
		return nil, domain.ErrForbidden
	}
	metrics.AuthzDecisionsTotal.WithLabelValues("allow", string(authz.KindAccount)).Inc()

	account, err := s.register(ctx, in.RegisterInput, domain.RoleProcessing, actorID, in.ManagedRegions)
	if err != nil {
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleProcessing)).Inc()
	return account, nil
}

// register is the shared creation path. createdBy records provisioning
// lineage for staff accounts.
func (s *AuthService) register(ctx context.Context, in ports.RegisterInput, role domain.Role, createdBy string, managedRegions []string) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAccountExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		// The original registration form allows a bare email; derive a
		// placeholder name from the local part.
		name = emailLocalPart(email)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Email:          email,
		Name:           name,
		Phone:          in.Phone,
		PasswordHash:   hash,
		Role:           role,
		ManagedRegions: managedRegions,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return s.repo.Create(ctx, account)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Same response as a wrong password; login must not reveal
			// whether the address is registered.
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !VerifyPassword(password, account.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(account.ID, account.Role)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, account, nil
}

// Resolve validates a bearer token and loads its account. A valid token for a
// deleted account is indistinguishable from an invalid token to the caller.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.codec.Validate(token)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, claims.SubjectID)
	if err != nil {
		s.log.Debug().Str("subject_id", claims.SubjectID).Msg("valid token for missing account")
		return nil, domain.ErrInvalidToken
	}
	return account, nil
}

func emailLocalPart(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
