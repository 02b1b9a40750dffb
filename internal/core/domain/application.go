package domain

import "time"

// ApplicationStatus represents the lifecycle state of a university application.
type ApplicationStatus string

const (
	ApplicationNew        ApplicationStatus = "new"
	ApplicationInProgress ApplicationStatus = "in_progress"
	ApplicationSubmitted  ApplicationStatus = "submitted"
	ApplicationAccepted   ApplicationStatus = "accepted"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationWithdrawn  ApplicationStatus = "withdrawn"
)

// applicationTransitions defines the allowed state machine transitions.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationNew:        {ApplicationInProgress, ApplicationWithdrawn},
	ApplicationInProgress: {ApplicationSubmitted, ApplicationWithdrawn},
	ApplicationSubmitted:  {ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn},
}

// CanTransitionTo reports whether a transition from the current status to next
// is valid. Re-applying the current status is always valid (idempotent update).
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ApplicationHistoryEntry records a single status change on an application.
type ApplicationHistoryEntry struct {
	Status    ApplicationStatus `json:"status"`
	Progress  int               `json:"progress"`
	Notes     string            `json:"notes,omitempty"`
	ChangedBy string            `json:"changed_by,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Application is a university application tracked for a student. History is
// embedded so a status change and its audit entry persist in one write.
type Application struct {
	ID             string                    `json:"id"`
	StudentID      string                    `json:"student_id"`
	UniversityName string                    `json:"university_name"`
	ProgramName    string                    `json:"program_name"`
	Intake         string                    `json:"intake"`
	Status         ApplicationStatus         `json:"status"`
	Progress       int                       `json:"progress"`
	ApplicationFee float64                   `json:"application_fee,omitempty"`
	TuitionFee     float64                   `json:"tuition_fee,omitempty"`
	Notes          string                    `json:"notes,omitempty"`
	CreatedBy      string                    `json:"created_by,omitempty"`
	History        []ApplicationHistoryEntry `json:"history"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}
