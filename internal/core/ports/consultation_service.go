package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// BookConsultationInput carries a booking request. StudentID is empty when an
// anonymous visitor books through the public form.
type BookConsultationInput struct {
	StudentID        string
	Name             string
	Email            string
	Phone            string
	Date             string
	Time             string
	Service          string
	Message          string
	PaymentReference string
}

// UpdateConsultationInput carries a staff booking update.
type UpdateConsultationInput struct {
	Status string
	Notes  string
}

// ConsultationService covers public booking and admin booking management.
type ConsultationService interface {
	// Book accepts bookings from anyone; no authentication is required.
	Book(ctx context.Context, in BookConsultationInput) (*domain.Consultation, error)
	Get(ctx context.Context, actor authz.Actor, id string) (*domain.Consultation, error)
	ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Consultation, error)
	List(ctx context.Context, actor authz.Actor, status string) ([]*domain.Consultation, error)
	Update(ctx context.Context, actor authz.Actor, id string, in UpdateConsultationInput) (*domain.Consultation, error)
}
