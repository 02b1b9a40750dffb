package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type studentService struct {
	accounts     ports.AccountRepository
	education    ports.EducationRepository
	documents    ports.DocumentRepository
	applications ports.ApplicationRepository
	log          zerolog.Logger
}

// NewStudentService returns a StudentService over the account store plus the
// per-student resource repositories the staff detail view aggregates.
func NewStudentService(
	accounts ports.AccountRepository,
	education ports.EducationRepository,
	documents ports.DocumentRepository,
	applications ports.ApplicationRepository,
	log zerolog.Logger,
) ports.StudentService {
	return &studentService{
		accounts:     accounts,
		education:    education,
		documents:    documents,
		applications: applications,
		log:          log,
	}
}

func (s *studentService) GetProfile(ctx context.Context, actor authz.Actor, studentID string) (*domain.Account, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindStudentProfile, studentID); err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleStudent {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

func (s *studentService) UpdateProfile(ctx context.Context, actor authz.Actor, studentID string, in ports.ProfileInput) (*domain.Account, error) {
	if err := authorizeResource(s.log, actor, authz.OpUpdate, authz.KindStudentProfile, studentID); err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleStudent {
		return nil, domain.ErrNotFound
	}
	return s.accounts.UpdateProfile(ctx, studentID, in.Name, in.Phone, in.Profile)
}

// ListStudents backs the processing dashboard: every student plus their
// application and document counts.
func (s *studentService) ListStudents(ctx context.Context, actor authz.Actor) ([]ports.StudentSummary, error) {
	// The list spans every student, so the check runs against an ownerless
	// read: staff roles pass, students do not.
	if err := authorize(s.log, actor, authz.OpRead, authz.KindStudentProfile, ""); err != nil {
		return nil, err
	}

	students, err := s.accounts.ListByRole(ctx, domain.RoleStudent)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.StudentSummary, 0, len(students))
	for _, st := range students {
		appCount, err := s.applications.CountByStudent(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		docCount, err := s.documents.CountByStudent(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ports.StudentSummary{
			ID:               st.ID,
			Name:             st.Name,
			Email:            st.Email,
			Phone:            st.Phone,
			PreferredCountry: st.Profile.PreferredCountry,
			ApplicationCount: appCount,
			DocumentCount:    docCount,
		})
	}
	return summaries, nil
}

func (s *studentService) GetStudentDetail(ctx context.Context, actor authz.Actor, studentID string) (*ports.StudentDetail, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindStudentProfile, studentID); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleStudent {
		return nil, domain.ErrNotFound
	}

	education, err := s.education.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	documents, err := s.documents.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	applications, err := s.applications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &ports.StudentDetail{
		Profile:      account,
		Education:    education,
		Documents:    documents,
		Applications: applications,
	}, nil
}

func (s *studentService) AddEducation(ctx context.Context, actor authz.Actor, studentID string, in ports.EducationInput) (*domain.Education, error) {
	if err := authorizeResource(s.log, actor, authz.OpCreate, authz.KindEducation, studentID); err != nil {
		return nil, err
	}
	entry := &domain.Education{
		StudentID:     studentID,
		Degree:        in.Degree,
		Institution:   in.Institution,
		YearCompleted: in.YearCompleted,
		GPA:           in.GPA,
		Country:       in.Country,
		Major:         in.Major,
		CreatedAt:     time.Now().UTC(),
	}
	return s.education.Create(ctx, entry)
}

func (s *studentService) ListEducation(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Education, error) {
	if err := authorizeResource(s.log, actor, authz.OpRead, authz.KindEducation, studentID); err != nil {
		return nil, err
	}
	return s.education.ListByStudent(ctx, studentID)
}
