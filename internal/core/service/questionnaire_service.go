package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type questionnaireService struct {
	repo ports.QuestionnaireRepository
	log  zerolog.Logger
}

// NewQuestionnaireService returns a QuestionnaireService implementation.
func NewQuestionnaireService(repo ports.QuestionnaireRepository, log zerolog.Logger) ports.QuestionnaireService {
	return &questionnaireService{repo: repo, log: log}
}

// Create defines a new questionnaire. Only admins manage the catalogue.
func (s *questionnaireService) Create(ctx context.Context, actor authz.Actor, in ports.CreateQuestionnaireInput) (*domain.Questionnaire, error) {
	if err := authorizeManage(s.log, actor, authz.KindQuestionnaireResponse); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	q := &domain.Questionnaire{
		Title:       in.Title,
		Description: in.Description,
		Required:    in.Required,
		CreatedAt:   time.Now().UTC(),
	}
	return s.repo.CreateQuestionnaire(ctx, q)
}

// List returns the questionnaire catalogue. Any authenticated account may
// browse it.
func (s *questionnaireService) List(ctx context.Context) ([]*domain.Questionnaire, error) {
	return s.repo.ListQuestionnaires(ctx)
}

func (s *questionnaireService) Submit(ctx context.Context, actor authz.Actor, in ports.SubmitResponseInput) (*domain.QuestionnaireResponse, error) {
	if err := authorize(s.log, actor, authz.OpCreate, authz.KindQuestionnaireResponse, actor.ID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindQuestionnaireByID(ctx, in.QuestionnaireID); err != nil {
		return nil, err
	}
	if len(in.Answers) == 0 {
		return nil, domain.ErrInvalidInput
	}

	resp := &domain.QuestionnaireResponse{
		StudentID:       actor.ID,
		QuestionnaireID: in.QuestionnaireID,
		Answers:         in.Answers,
		CreatedAt:       time.Now().UTC(),
	}
	created, err := s.repo.CreateResponse(ctx, resp)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("student_id", actor.ID).Str("questionnaire_id", in.QuestionnaireID).Msg("questionnaire response submitted")
	return created, nil
}

func (s *questionnaireService) ListStudentResponses(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.QuestionnaireResponse, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindQuestionnaireResponse, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListResponsesByStudent(ctx, studentID)
}

// Pending lists required questionnaires the student has not answered yet.
func (s *questionnaireService) Pending(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Questionnaire, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindQuestionnaireResponse, studentID); err != nil {
		return nil, err
	}

	all, err := s.repo.ListQuestionnaires(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.ListResponsesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	answered := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		answered[r.QuestionnaireID] = struct{}{}
	}

	pending := make([]*domain.Questionnaire, 0)
	for _, q := range all {
		if !q.Required {
			continue
		}
		if _, ok := answered[q.ID]; !ok {
			pending = append(pending, q)
		}
	}
	return pending, nil
}
