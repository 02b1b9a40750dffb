package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// QuestionnaireRepository defines persistence for questionnaires and their
// responses.
type QuestionnaireRepository interface {
	CreateQuestionnaire(ctx context.Context, q *domain.Questionnaire) (*domain.Questionnaire, error)
	FindQuestionnaireByID(ctx context.Context, id string) (*domain.Questionnaire, error)
	ListQuestionnaires(ctx context.Context) ([]*domain.Questionnaire, error)
	CreateResponse(ctx context.Context, r *domain.QuestionnaireResponse) (*domain.QuestionnaireResponse, error)
	ListResponsesByStudent(ctx context.Context, studentID string) ([]*domain.QuestionnaireResponse, error)
}
