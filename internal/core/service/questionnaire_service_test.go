package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type stubQuestionnaireRepo struct {
	questionnaires map[string]*domain.Questionnaire
	responses      []*domain.QuestionnaireResponse
	nextID         int
}

func newStubQuestionnaireRepo() *stubQuestionnaireRepo {
	return &stubQuestionnaireRepo{questionnaires: make(map[string]*domain.Questionnaire)}
}

func (r *stubQuestionnaireRepo) CreateQuestionnaire(_ context.Context, q *domain.Questionnaire) (*domain.Questionnaire, error) {
	r.nextID++
	clone := *q
	clone.ID = fmt.Sprintf("q-%d", r.nextID)
	r.questionnaires[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubQuestionnaireRepo) FindQuestionnaireByID(_ context.Context, id string) (*domain.Questionnaire, error) {
	q, ok := r.questionnaires[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *q
	return &clone, nil
}

func (r *stubQuestionnaireRepo) ListQuestionnaires(_ context.Context) ([]*domain.Questionnaire, error) {
	var out []*domain.Questionnaire
	for _, q := range r.questionnaires {
		clone := *q
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubQuestionnaireRepo) CreateResponse(_ context.Context, resp *domain.QuestionnaireResponse) (*domain.QuestionnaireResponse, error) {
	r.nextID++
	clone := *resp
	clone.ID = fmt.Sprintf("resp-%d", r.nextID)
	r.responses = append(r.responses, &clone)
	out := clone
	return &out, nil
}

func (r *stubQuestionnaireRepo) ListResponsesByStudent(_ context.Context, studentID string) ([]*domain.QuestionnaireResponse, error) {
	var out []*domain.QuestionnaireResponse
	for _, resp := range r.responses {
		if resp.StudentID == studentID {
			clone := *resp
			out = append(out, &clone)
		}
	}
	return out, nil
}

func TestQuestionnaireCreate_AdminOnly(t *testing.T) {
	svc := NewQuestionnaireService(newStubQuestionnaireRepo(), zerolog.Nop())

	admin := authz.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	q, err := svc.Create(context.Background(), admin, ports.CreateQuestionnaireInput{
		Title:    "Study goals",
		Required: true,
	})
	if err != nil {
		t.Fatalf("Create as admin: %v", err)
	}
	if !q.Required {
		t.Error("Required flag not persisted")
	}

	for _, actor := range []authz.Actor{
		{ID: "staff-1", Role: domain.RoleProcessing},
		{ID: "student-1", Role: domain.RoleStudent},
	} {
		if _, err := svc.Create(context.Background(), actor, ports.CreateQuestionnaireInput{Title: "x"}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Create as %s = %v, want ErrForbidden", actor.Role, err)
		}
	}
}

func TestQuestionnaireSubmit(t *testing.T) {
	repo := newStubQuestionnaireRepo()
	svc := NewQuestionnaireService(repo, zerolog.Nop())

	admin := authz.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	q, err := svc.Create(context.Background(), admin, ports.CreateQuestionnaireInput{Title: "Study goals", Required: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	student := authz.Actor{ID: "student-1", Role: domain.RoleStudent}
	resp, err := svc.Submit(context.Background(), student, ports.SubmitResponseInput{
		QuestionnaireID: q.ID,
		Answers:         map[string]string{"goal": "MSc in the UK"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.StudentID != "student-1" {
		t.Errorf("StudentID = %q, want the submitting actor", resp.StudentID)
	}
}

func TestQuestionnaireSubmit_UnknownQuestionnaire(t *testing.T) {
	svc := NewQuestionnaireService(newStubQuestionnaireRepo(), zerolog.Nop())

	student := authz.Actor{ID: "student-1", Role: domain.RoleStudent}
	_, err := svc.Submit(context.Background(), student, ports.SubmitResponseInput{
		QuestionnaireID: "missing",
		Answers:         map[string]string{"a": "b"},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Submit for missing questionnaire = %v, want ErrNotFound", err)
	}
}

func TestQuestionnairePending(t *testing.T) {
	repo := newStubQuestionnaireRepo()
	svc := NewQuestionnaireService(repo, zerolog.Nop())
	admin := authz.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	required1, err := svc.Create(context.Background(), admin, ports.CreateQuestionnaireInput{Title: "Goals", Required: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, ports.CreateQuestionnaireInput{Title: "Budget", Required: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, ports.CreateQuestionnaireInput{Title: "Feedback", Required: false}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	student := authz.Actor{ID: "student-1", Role: domain.RoleStudent}
	if _, err := svc.Submit(context.Background(), student, ports.SubmitResponseInput{
		QuestionnaireID: required1.ID,
		Answers:         map[string]string{"goal": "PhD"},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	pending, err := svc.Pending(context.Background(), student, "student-1")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	// Only the unanswered required questionnaire remains; the optional one
	// never counts as pending.
	if len(pending) != 1 || pending[0].Title != "Budget" {
		t.Fatalf("Pending = %+v, want just the Budget questionnaire", pending)
	}
}

func TestQuestionnaireResponses_OtherStudentMasked(t *testing.T) {
	svc := NewQuestionnaireService(newStubQuestionnaireRepo(), zerolog.Nop())

	other := authz.Actor{ID: "student-2", Role: domain.RoleStudent}
	if _, err := svc.ListStudentResponses(context.Background(), other, "student-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ListStudentResponses by non-owner = %v, want ErrNotFound", err)
	}
}
