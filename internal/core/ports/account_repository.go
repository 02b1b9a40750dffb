package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// AccountRepository defines persistence for the unified accounts collection.
// All roles live in one collection; there is no separate staff table.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// UpdateProfile persists name, phone and profile fields. Role and email
	// are never touched by this call.
	UpdateProfile(ctx context.Context, id string, name, phone string, profile domain.Profile) (*domain.Account, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error)
}
