package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// RegisterInput carries the fields common to all registration paths.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// RegisterAdminInput is the out-of-band bootstrap path: no token, the
// provisioning key alone authorizes the call. RemoteAddr feeds rate limiting.
type RegisterAdminInput struct {
	RegisterInput
	ProvisionKey string
	RemoteAddr   string
}

// RegisterProcessingInput provisions a processing-team account. Only admins
// may call this.
type RegisterProcessingInput struct {
	RegisterInput
	ManagedRegions []string
}

// AuthService implements registration, login and token resolution.
type AuthService interface {
	RegisterStudent(ctx context.Context, in RegisterInput) (*domain.Account, error)
	RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*domain.Account, error)
	RegisterProcessing(ctx context.Context, actorID string, actorRole domain.Role, in RegisterProcessingInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	// Resolve validates a bearer token and loads the account it identifies.
	// A valid token whose account no longer exists resolves to
	// ErrInvalidToken, not an internal error.
	Resolve(ctx context.Context, token string) (*domain.Account, error)
}
