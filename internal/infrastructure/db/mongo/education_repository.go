package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

const educationCollection = "education"

type EducationRepository struct {
	coll *mongo.Collection
}

func NewEducationRepository(db *mongo.Database) *EducationRepository {
	return &EducationRepository{coll: db.Collection(educationCollection)}
}

type mongoEducation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	StudentID     string             `bson:"student_id"`
	Degree        string             `bson:"degree"`
	Institution   string             `bson:"institution"`
	YearCompleted string             `bson:"year_completed"`
	GPA           string             `bson:"gpa,omitempty"`
	Country       string             `bson:"country,omitempty"`
	Major         string             `bson:"major,omitempty"`
	CreatedAt     int64              `bson:"created_at"`
}

func toDomainEducation(m mongoEducation) *domain.Education {
	return &domain.Education{
		ID:            m.ID.Hex(),
		StudentID:     m.StudentID,
		Degree:        m.Degree,
		Institution:   m.Institution,
		YearCompleted: m.YearCompleted,
		GPA:           m.GPA,
		Country:       m.Country,
		Major:         m.Major,
		CreatedAt:     unixToTime(m.CreatedAt),
	}
}

func (r *EducationRepository) Create(ctx context.Context, entry *domain.Education) (*domain.Education, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := mongoEducation{
		StudentID:     entry.StudentID,
		Degree:        entry.Degree,
		Institution:   entry.Institution,
		YearCompleted: entry.YearCompleted,
		GPA:           entry.GPA,
		Country:       entry.Country,
		Major:         entry.Major,
		CreatedAt:     entry.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert education entry: %w", err)
	}

	created := *entry
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *EducationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Education, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("list education entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []*domain.Education
	for cur.Next(ctx) {
		var m mongoEducation
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode education entry: %w", err)
		}
		entries = append(entries, toDomainEducation(m))
	}
	return entries, cur.Err()
}
