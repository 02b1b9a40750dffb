package ports

import (
	"context"
	"time"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// ApplicationRepository defines persistence for university applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Application, error)
	// UpdateStatus sets the new status/progress/notes and, when entry is
	// non-nil, appends it to the embedded history in the same write.
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, progress int, notes string, entry *domain.ApplicationHistoryEntry, at time.Time) error
	CountByStudent(ctx context.Context, studentID string) (int, error)
}
