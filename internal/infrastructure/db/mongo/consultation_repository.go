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

const consultationCollection = "consultations"

type ConsultationRepository struct {
	coll *mongo.Collection
}

func NewConsultationRepository(db *mongo.Database) *ConsultationRepository {
	return &ConsultationRepository{coll: db.Collection(consultationCollection)}
}

type mongoConsultation struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	StudentID        string             `bson:"student_id,omitempty"`
	Reference        string             `bson:"reference"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Phone            string             `bson:"phone"`
	Date             string             `bson:"date"`
	Time             string             `bson:"time"`
	Service          string             `bson:"service,omitempty"`
	Message          string             `bson:"message,omitempty"`
	Notes            string             `bson:"notes,omitempty"`
	Status           string             `bson:"status"`
	PaymentStatus    string             `bson:"payment_status"`
	PaymentReference string             `bson:"payment_reference,omitempty"`
	CreatedAt        int64              `bson:"created_at"`
	UpdatedAt        int64              `bson:"updated_at"`
}

func toDomainConsultation(m mongoConsultation) *domain.Consultation {
	return &domain.Consultation{
		ID:               m.ID.Hex(),
		StudentID:        m.StudentID,
		Reference:        m.Reference,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		Date:             m.Date,
		Time:             m.Time,
		Service:          m.Service,
		Message:          m.Message,
		Notes:            m.Notes,
		Status:           domain.ConsultationStatus(m.Status),
		PaymentStatus:    m.PaymentStatus,
		PaymentReference: m.PaymentReference,
		CreatedAt:        unixToTime(m.CreatedAt),
		UpdatedAt:        unixToTime(m.UpdatedAt),
	}
}

func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := mongoConsultation{
		StudentID:        c.StudentID,
		Reference:        c.Reference,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Date:             c.Date,
		Time:             c.Time,
		Service:          c.Service,
		Message:          c.Message,
		Notes:            c.Notes,
		Status:           string(c.Status),
		PaymentStatus:    c.PaymentStatus,
		PaymentReference: c.PaymentReference,
		CreatedAt:        c.CreatedAt.Unix(),
		UpdatedAt:        c.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert consultation: %w", err)
	}

	created := *c
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ConsultationRepository) FindByID(ctx context.Context, id string) (*domain.Consultation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoConsultation
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find consultation: %w", err)
	}
	return toDomainConsultation(m), nil
}

func (r *ConsultationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Consultation, error) {
	return r.list(ctx, bson.M{"student_id": studentID})
}

func (r *ConsultationRepository) List(ctx context.Context, status domain.ConsultationStatus) ([]*domain.Consultation, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.list(ctx, filter)
}

func (r *ConsultationRepository) list(ctx context.Context, filter bson.M) ([]*domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []*domain.Consultation
	for cur.Next(ctx) {
		var m mongoConsultation
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode consultation: %w", err)
		}
		bookings = append(bookings, toDomainConsultation(m))
	}
	return bookings, cur.Err()
}

func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id string, status domain.ConsultationStatus, notes string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":     string(status),
		"notes":      notes,
		"updated_at": at.Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
