package ports

import (
	"context"
	"time"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// DocumentRepository defines persistence for uploaded documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	FindByID(ctx context.Context, id string) (*domain.Document, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Document, error)
	// UpdateReview persists a review outcome (status + feedback) in one write.
	UpdateReview(ctx context.Context, id string, status domain.DocumentStatus, feedback string, at time.Time) error
	CountByStudent(ctx context.Context, studentID string) (int, error)
}
