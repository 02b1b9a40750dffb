package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type documentService struct {
	repo ports.DocumentRepository
	log  zerolog.Logger
}

// NewDocumentService returns a DocumentService implementation.
func NewDocumentService(repo ports.DocumentRepository, log zerolog.Logger) ports.DocumentService {
	return &documentService{repo: repo, log: log}
}

func parseDocumentType(s string) (domain.DocumentType, bool) {
	switch domain.DocumentType(s) {
	case domain.DocumentAcademic, domain.DocumentFinancial, domain.DocumentVisa, domain.DocumentCustom:
		return domain.DocumentType(s), true
	}
	return "", false
}

func (s *documentService) Upload(ctx context.Context, actor authz.Actor, in ports.UploadDocumentInput) (*domain.Document, error) {
	if err := authorize(s.log, actor, authz.OpCreate, authz.KindDocument, in.StudentID); err != nil {
		return nil, err
	}

	docType, ok := parseDocumentType(in.Type)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		StudentID: in.StudentID,
		Name:      in.Name,
		Type:      docType,
		FileURL:   in.FileURL,
		Status:    domain.DocumentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.log.Error().Err(err).Str("student_id", in.StudentID).Msg("failed to store document")
		return nil, err
	}

	s.log.Info().Str("document_id", created.ID).Str("student_id", created.StudentID).Msg("document uploaded")
	return created, nil
}

func (s *documentService) Get(ctx context.Context, actor authz.Actor, id string) (*domain.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindDocument, doc.StudentID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Document, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindDocument, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, studentID)
}

// Review records a staff review decision. Re-submitting the current status is
// a no-op that does not touch storage again.
func (s *documentService) Review(ctx context.Context, actor authz.Actor, id string, in ports.ReviewDocumentInput) (*domain.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeResource(s.log, actor, authz.OpUpdate, authz.KindDocument, doc.StudentID); err != nil {
		return nil, err
	}
	// Students own their documents but review is a staff action.
	if actor.Role == domain.RoleStudent {
		return nil, domain.ErrForbidden
	}

	next := domain.DocumentStatus(in.Status)
	if !doc.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	if doc.Status == next && doc.Feedback == in.Feedback {
		return doc, nil
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateReview(ctx, id, next, in.Feedback, now); err != nil {
		return nil, err
	}

	doc.Status = next
	doc.Feedback = in.Feedback
	doc.UpdatedAt = now
	s.log.Info().Str("document_id", id).Str("status", string(next)).Str("reviewer", actor.ID).Msg("document reviewed")
	return doc, nil
}
