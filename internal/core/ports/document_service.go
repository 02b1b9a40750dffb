package ports

import (
	"context"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// UploadDocumentInput carries a new document upload. StudentID may differ
// from the actor when staff upload on a student's behalf.
type UploadDocumentInput struct {
	StudentID string
	Name      string
	Type      string
	FileURL   string
}

// ReviewDocumentInput carries a review decision for a document.
type ReviewDocumentInput struct {
	Status   string
	Feedback string
}

// DocumentService covers upload, retrieval and staff review of documents.
type DocumentService interface {
	Upload(ctx context.Context, actor authz.Actor, in UploadDocumentInput) (*domain.Document, error)
	Get(ctx context.Context, actor authz.Actor, id string) (*domain.Document, error)
	ListByStudent(ctx context.Context, actor authz.Actor, studentID string) ([]*domain.Document, error)
	Review(ctx context.Context, actor authz.Actor, id string, in ReviewDocumentInput) (*domain.Document, error)
}
