package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

const documentCollection = "documents"

type DocumentRepository struct {
	coll *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{coll: db.Collection(documentCollection)}
}

type mongoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	StudentID string             `bson:"student_id"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	FileURL   string             `bson:"file_url"`
	Status    string             `bson:"status"`
	Feedback  string             `bson:"feedback,omitempty"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func toDomainDocument(m mongoDocument) *domain.Document {
	return &domain.Document{
		ID:        m.ID.Hex(),
		StudentID: m.StudentID,
		Name:      m.Name,
		Type:      domain.DocumentType(m.Type),
		FileURL:   m.FileURL,
		Status:    domain.DocumentStatus(m.Status),
		Feedback:  m.Feedback,
		CreatedAt: unixToTime(m.CreatedAt),
		UpdatedAt: unixToTime(m.UpdatedAt),
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := mongoDocument{
		StudentID: doc.StudentID,
		Name:      doc.Name,
		Type:      string(doc.Type),
		FileURL:   doc.FileURL,
		Status:    string(doc.Status),
		Feedback:  doc.Feedback,
		CreatedAt: doc.CreatedAt.Unix(),
		UpdatedAt: doc.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	created := *doc
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return toDomainDocument(m), nil
}

func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	var docs []*domain.Document
	for cur.Next(ctx) {
		var m mongoDocument
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, toDomainDocument(m))
	}
	return docs, cur.Err()
}

func (r *DocumentRepository) UpdateReview(ctx context.Context, id string, status domain.DocumentStatus, feedback string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":     string(status),
		"feedback":   feedback,
		"updated_at": at.Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update document review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return int(n), nil
}
