package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// ProfileInput carries the mutable profile fields of a student account.
type ProfileInput struct {
	Name    string
	Phone   string
	Profile domain.Profile
}

// EducationInput carries one education-history entry.
type EducationInput struct {
	Degree        string
	Institution   string
	YearCompleted string
	GPA           string
	Country       string
	Major         string
}

// StudentSummary is the lightweight row used on the staff student list.
type StudentSummary struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	PreferredCountry string
	ApplicationCount int
	DocumentCount    int
}

// StudentDetail aggregates everything the processing dashboard shows for one
// student.
type StudentDetail struct {
	Profile      *domain.Account
	Education    []*domain.Education
	Documents    []*domain.Document
	Applications []*domain.Application
}

// StudentService covers profile access plus the staff-facing student views.
type StudentService interface {
	GetProfile(ctx context.Context, actor authz.Actor, studentID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, actor authz.Actor, studentID string, in ProfileInput) (*domain.Account, error)
	ListStudents(ctx context.Context, actor authz.Actor) ([]StudentSummary, error)
	GetStudentDetail(ctx context.Context, actor authz.Actor, studentID string) (*StudentDetail, error)
	AddEducation(ctx context.Context, actor authz.Actor, studentID string, in EducationInput) (*domain.Education, error)
	ListEducation(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Education, error)
}
