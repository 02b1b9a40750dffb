package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type consultationService struct {
	repo ports.ConsultationRepository
	log  zerolog.Logger
}

// NewConsultationService returns a ConsultationService implementation.
func NewConsultationService(repo ports.ConsultationRepository, log zerolog.Logger) ports.ConsultationService {
	return &consultationService{repo: repo, log: log}
}

// Book accepts bookings from anonymous visitors and registered students
// alike. The authorization model treats an ownerless consultation as
// create-only for everyone.
func (s *consultationService) Book(ctx context.Context, in ports.BookConsultationInput) (*domain.Consultation, error) {
	actor := authz.Actor{ID: in.StudentID, Role: domain.RoleStudent}
	if in.StudentID == "" {
		actor = authz.Actor{}
	}
	if err := authorize(s.log, actor, authz.OpCreate, authz.KindConsultation, in.StudentID); err != nil {
		return nil, err
	}

	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Date == "" || in.Time == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	booking := &domain.Consultation{
		StudentID:        in.StudentID,
		Reference:        "CST-" + uuid.NewString()[:8],
		Name:             in.Name,
		Email:            domain.NormalizeEmail(in.Email),
		Phone:            in.Phone,
		Date:             in.Date,
		Time:             in.Time,
		Service:          in.Service,
		Message:          in.Message,
		Status:           domain.ConsultationPending,
		PaymentStatus:    "pending",
		PaymentReference: in.PaymentReference,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		s.log.Error().Err(err).Str("email", booking.Email).Msg("failed to store consultation")
		return nil, err
	}

	s.log.Info().Str("consultation_id", created.ID).Str("reference", created.Reference).Msg("consultation booked")
	return created, nil
}

func (s *consultationService) Get(ctx context.Context, actor authz.Actor, id string) (*domain.Consultation, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindConsultation, booking.StudentID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *consultationService) ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Consultation, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindConsultation, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, studentID)
}

// List is the admin booking overview. Consultations are not staff-visible to
// the processing role, so only admins pass the check.
func (s *consultationService) List(ctx context.Context, actor authz.Actor, status string) ([]*domain.Consultation, error) {
	if err := authorizeManage(s.log, actor, authz.KindConsultation); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, domain.ConsultationStatus(status))
}

func (s *consultationService) Update(ctx context.Context, actor authz.Actor, id string, in ports.UpdateConsultationInput) (*domain.Consultation, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.log, actor, authz.OpUpdate, authz.KindConsultation, booking.StudentID); err != nil {
		return nil, err
	}

	next := booking.Status
	if in.Status != "" {
		next = domain.ConsultationStatus(in.Status)
		if !booking.Status.CanTransitionTo(next) {
			return nil, domain.ErrInvalidTransition
		}
	}
	notes := booking.Notes
	if in.Notes != "" {
		notes = in.Notes
	}

	if next == booking.Status && notes == booking.Notes {
		return booking, nil
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, next, notes, now); err != nil {
		return nil, err
	}

	booking.Status = next
	booking.Notes = notes
	booking.UpdatedAt = now
	s.log.Info().Str("consultation_id", id).Str("status", string(next)).Msg("consultation updated")
	return booking, nil
}
