package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// RecommendationRepository defines persistence for generated recommendations.
type RecommendationRepository interface {
	CreateMany(ctx context.Context, recs []*domain.Recommendation) ([]*domain.Recommendation, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Recommendation, error)
}
