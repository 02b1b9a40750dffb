package domain

import "time"

// DocumentStatus represents the review state of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// documentTransitions defines the allowed review-state changes. A reviewed
// document may be sent back to pending for re-review after a re-upload.
var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentPending:  {DocumentApproved, DocumentRejected},
	DocumentApproved: {DocumentPending},
	DocumentRejected: {DocumentPending},
}

// CanTransitionTo reports whether a review-state change is valid. Setting the
// same status again is allowed and must be a no-op for callers.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range documentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DocumentType is the category of an uploaded document.
type DocumentType string

const (
	DocumentAcademic  DocumentType = "academic"
	DocumentFinancial DocumentType = "financial"
	DocumentVisa      DocumentType = "visa"
	DocumentCustom    DocumentType = "custom"
)

// Document is a file uploaded by or on behalf of a student. The owner never
// changes once set.
type Document struct {
	ID        string         `json:"id"`
	StudentID string         `json:"student_id"`
	Name      string         `json:"name"`
	Type      DocumentType   `json:"type"`
	FileURL   string         `json:"file_url"`
	Status    DocumentStatus `json:"status"`
	Feedback  string         `json:"feedback,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
