package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// GenerateRecommendationsInput carries the academic profile the generator
// works from. Fields mirror the student questionnaire.
type GenerateRecommendationsInput struct {
	StudentID          string
	EducationLevel     string
	GPA                string
	EnglishScore       string
	TestType           string
	PreferredCountries []string
	PreferredFields    []string
	Budget             string
}

// RecommendationService generates and lists study recommendations.
type RecommendationService interface {
	Generate(ctx context.Context, actor authz.Actor, in GenerateRecommendationsInput) ([]*domain.Recommendation, error)
	ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Recommendation, error)
}
