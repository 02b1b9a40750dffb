package ports

import (
	"context"
	"time"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// ConsultationRepository defines persistence for consultation bookings.
type ConsultationRepository interface {
	Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error)
	FindByID(ctx context.Context, id string) (*domain.Consultation, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Consultation, error)
	// List returns bookings filtered by status; an empty status means all.
	List(ctx context.Context, status domain.ConsultationStatus) ([]*domain.Consultation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConsultationStatus, notes string, at time.Time) error
}
