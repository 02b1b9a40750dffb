package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// CreateApplicationInput carries a new application. Staff create applications
// on a student's behalf; students may also create their own.
type CreateApplicationInput struct {
	StudentID      string
	UniversityName string
	ProgramName    string
	Intake         string
	ApplicationFee float64
	TuitionFee     float64
	Notes          string
}

// UpdateApplicationInput carries a status/progress update. UpdateMessage is
// recorded in the history entry when the update actually changes something.
type UpdateApplicationInput struct {
	Status        string
	Progress      int
	Notes         string
	UpdateMessage string
}

// ApplicationService covers application tracking.
type ApplicationService interface {
	Create(ctx context.Context, actor authz.Actor, in CreateApplicationInput) (*domain.Application, error)
	Get(ctx context.Context, actor authz.Actor, id string) (*domain.Application, error)
	ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Application, error)
	UpdateStatus(ctx context.Context, actor authz.Actor, id string, in UpdateApplicationInput) (*domain.Application, error)
	History(ctx context.Context, actor authz.Actor, id string) ([]domain.ApplicationHistoryEntry, error)
}
