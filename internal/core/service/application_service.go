package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

const initialProgress = 10

type applicationService struct {
	repo     ports.ApplicationRepository
	accounts ports.AccountRepository
	log      zerolog.Logger
}

// NewApplicationService returns an ApplicationService implementation.
func NewApplicationService(repo ports.ApplicationRepository, accounts ports.AccountRepository, log zerolog.Logger) ports.ApplicationService {
	return &applicationService{repo: repo, accounts: accounts, log: log}
}

func (s *applicationService) Create(ctx context.Context, actor authz.Actor, in ports.CreateApplicationInput) (*domain.Application, error) {
	if err := authorize(s.log, actor, authz.OpCreate, authz.KindApplication, in.StudentID); err != nil {
		return nil, err
	}

	student, err := s.accounts.FindByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != domain.RoleStudent {
		return nil, domain.ErrAccountNotFound
	}

	now := time.Now().UTC()
	app := &domain.Application{
		StudentID:      in.StudentID,
		UniversityName: in.UniversityName,
		ProgramName:    in.ProgramName,
		Intake:         in.Intake,
		Status:         domain.ApplicationNew,
		Progress:       initialProgress,
		ApplicationFee: in.ApplicationFee,
		TuitionFee:     in.TuitionFee,
		Notes:          in.Notes,
		CreatedBy:      actor.ID,
		History: []domain.ApplicationHistoryEntry{{
			Status:    domain.ApplicationNew,
			Progress:  initialProgress,
			Notes:     "Application created",
			ChangedBy: actor.ID,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, app)
	if err != nil {
		s.log.Error().Err(err).Str("student_id", in.StudentID).Msg("failed to create application")
		return nil, err
	}

	s.log.Info().Str("application_id", created.ID).Str("student_id", in.StudentID).Msg("application created")
	return created, nil
}

func (s *applicationService) Get(ctx context.Context, actor authz.Actor, id string) (*domain.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindApplication, app.StudentID); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Application, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindApplication, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, studentID)
}

// UpdateStatus applies a status/progress change. Re-applying the identical
// status and progress leaves the application untouched and appends no history
// entry, so repeated calls are safe. When the update does change something,
// the new state and its history entry are persisted in a single write.
func (s *applicationService) UpdateStatus(ctx context.Context, actor authz.Actor, id string, in ports.UpdateApplicationInput) (*domain.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeResource(s.log, actor, authz.OpUpdate, authz.KindApplication, app.StudentID); err != nil {
		return nil, err
	}
	// Students can see their applications but only staff move them along.
	if actor.Role == domain.RoleStudent {
		return nil, domain.ErrForbidden
	}

	next := app.Status
	if in.Status != "" {
		next = domain.ApplicationStatus(in.Status)
		if !app.Status.CanTransitionTo(next) {
			return nil, domain.ErrInvalidTransition
		}
	}

	progress := app.Progress
	if in.Progress > 0 {
		progress = in.Progress
	}
	notes := app.Notes
	if in.Notes != "" {
		notes = in.Notes
	}

	if next == app.Status && progress == app.Progress && notes == app.Notes {
		return app, nil
	}

	now := time.Now().UTC()
	message := in.UpdateMessage
	if message == "" {
		message = "Application updated"
	}
	entry := &domain.ApplicationHistoryEntry{
		Status:    next,
		Progress:  progress,
		Notes:     message,
		ChangedBy: actor.ID,
		Timestamp: now,
	}

	if err := s.repo.UpdateStatus(ctx, id, next, progress, notes, entry, now); err != nil {
		return nil, err
	}

	app.Status = next
	app.Progress = progress
	app.Notes = notes
	app.History = append(app.History, *entry)
	app.UpdatedAt = now

	s.log.Info().
		Str("application_id", id).
		Str("status", string(next)).
		Int("progress", progress).
		Str("changed_by", actor.ID).
		Msg("application updated")
	return app, nil
}

func (s *applicationService) History(ctx context.Context, actor authz.Actor, id string) ([]domain.ApplicationHistoryEntry, error) {
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return app.History, nil
}
