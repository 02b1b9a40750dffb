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

const applicationCollection = "applications"

type ApplicationRepository struct {
	coll *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{coll: db.Collection(applicationCollection)}
}

type mongoHistoryEntry struct {
	Status    string `bson:"status"`
	Progress  int    `bson:"progress"`
	Notes     string `bson:"notes,omitempty"`
	ChangedBy string `bson:"changed_by,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

type mongoApplication struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	StudentID      string              `bson:"student_id"`
	UniversityName string              `bson:"university_name"`
	ProgramName    string              `bson:"program_name"`
	Intake         string              `bson:"intake"`
	Status         string              `bson:"status"`
	Progress       int                 `bson:"progress"`
	ApplicationFee float64             `bson:"application_fee,omitempty"`
	TuitionFee     float64             `bson:"tuition_fee,omitempty"`
	Notes          string              `bson:"notes,omitempty"`
	CreatedBy      string              `bson:"created_by,omitempty"`
	History        []mongoHistoryEntry `bson:"history"`
	CreatedAt      int64               `bson:"created_at"`
	UpdatedAt      int64               `bson:"updated_at"`
}

func toMongoHistory(entries []domain.ApplicationHistoryEntry) []mongoHistoryEntry {
	out := make([]mongoHistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, mongoHistoryEntry{
			Status:    string(e.Status),
			Progress:  e.Progress,
			Notes:     e.Notes,
			ChangedBy: e.ChangedBy,
			Timestamp: e.Timestamp.Unix(),
		})
	}
	return out
}

func toDomainApplication(m mongoApplication) *domain.Application {
	history := make([]domain.ApplicationHistoryEntry, 0, len(m.History))
	for _, e := range m.History {
		history = append(history, domain.ApplicationHistoryEntry{
			Status:    domain.ApplicationStatus(e.Status),
			Progress:  e.Progress,
			Notes:     e.Notes,
			ChangedBy: e.ChangedBy,
			Timestamp: unixToTime(e.Timestamp),
		})
	}
	return &domain.Application{
		ID:             m.ID.Hex(),
		StudentID:      m.StudentID,
		UniversityName: m.UniversityName,
		ProgramName:    m.ProgramName,
		Intake:         m.Intake,
		Status:         domain.ApplicationStatus(m.Status),
		Progress:       m.Progress,
		ApplicationFee: m.ApplicationFee,
		TuitionFee:     m.TuitionFee,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		History:        history,
		CreatedAt:      unixToTime(m.CreatedAt),
		UpdatedAt:      unixToTime(m.UpdatedAt),
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := mongoApplication{
		StudentID:      app.StudentID,
		UniversityName: app.UniversityName,
		ProgramName:    app.ProgramName,
		Intake:         app.Intake,
		Status:         string(app.Status),
		Progress:       app.Progress,
		ApplicationFee: app.ApplicationFee,
		TuitionFee:     app.TuitionFee,
		Notes:          app.Notes,
		CreatedBy:      app.CreatedBy,
		History:        toMongoHistory(app.History),
		CreatedAt:      app.CreatedAt.Unix(),
		UpdatedAt:      app.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}

	created := *app
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoApplication
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return toDomainApplication(m), nil
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer cur.Close(ctx)

	var apps []*domain.Application
	for cur.Next(ctx) {
		var m mongoApplication
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		apps = append(apps, toDomainApplication(m))
	}
	return apps, cur.Err()
}

// UpdateStatus persists the new state and, when entry is non-nil, its audit
// entry in a single UpdateOne so the two can never diverge.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, progress int, notes string, entry *domain.ApplicationHistoryEntry, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":     string(status),
			"progress":   progress,
			"notes":      notes,
			"updated_at": at.Unix(),
		},
	}
	if entry != nil {
		update["$push"] = bson.M{"history": mongoHistoryEntry{
			Status:    string(entry.Status),
			Progress:  entry.Progress,
			Notes:     entry.Notes,
			ChangedBy: entry.ChangedBy,
			Timestamp: entry.Timestamp.Unix(),
		}}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return int(n), nil
}
