package domain

import "time"

// ConsultationStatus represents the booking state of a consultation.
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationConfirmed ConsultationStatus = "confirmed"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

var consultationTransitions = map[ConsultationStatus][]ConsultationStatus{
	ConsultationPending:   {ConsultationConfirmed, ConsultationCancelled},
	ConsultationConfirmed: {ConsultationCompleted, ConsultationCancelled},
}

// CanTransitionTo reports whether the booking-state change is valid.
func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range consultationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Consultation is a booking made by a visitor or a registered student.
// StudentID is empty for anonymous visitor bookings.
type Consultation struct {
	ID               string             `json:"id"`
	StudentID        string             `json:"student_id,omitempty"`
	Reference        string             `json:"reference"`
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	Phone            string             `json:"phone"`
	Date             string             `json:"date"`
	Time             string             `json:"time"`
	Service          string             `json:"service,omitempty"`
	Message          string             `json:"message,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	Status           ConsultationStatus `json:"status"`
	PaymentStatus    string             `json:"payment_status"`
	PaymentReference string             `json:"payment_reference,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
