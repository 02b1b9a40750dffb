package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// CreateQuestionnaireInput defines a new questionnaire (admin only).
type CreateQuestionnaireInput struct {
	Title       string
	Description string
	Required    bool
}

// SubmitResponseInput carries a student's answers to a questionnaire.
type SubmitResponseInput struct {
	QuestionnaireID string
	Answers         map[string]string
}

// QuestionnaireService covers questionnaire management and responses.
type QuestionnaireService interface {
	Create(ctx context.Context, actor authz.Actor, in CreateQuestionnaireInput) (*domain.Questionnaire, error)
	List(ctx context.Context) ([]*domain.Questionnaire, error)
	Submit(ctx context.Context, actor authz.Actor, in SubmitResponseInput) (*domain.QuestionnaireResponse, error)
	ListStudentResponses(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.QuestionnaireResponse, error)
	// Pending returns the required questionnaires the student has not yet
	// answered.
	Pending(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Questionnaire, error)
}
