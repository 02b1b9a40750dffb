package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// EducationRepository defines persistence for education-history entries.
type EducationRepository interface {
	Create(ctx context.Context, entry *domain.Education) (*domain.Education, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Education, error)
}
