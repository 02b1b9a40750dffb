package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

const (
	questionnaireCollection = "questionnaires"
	responseCollection      = "questionnaire_responses"
)

type QuestionnaireRepository struct {
	questionnaires *mongo.Collection
	responses      *mongo.Collection
}

func NewQuestionnaireRepository(db *mongo.Database) *QuestionnaireRepository {
	return &QuestionnaireRepository{
		questionnaires: db.Collection(questionnaireCollection),
		responses:      db.Collection(responseCollection),
	}
}

type mongoQuestionnaire struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Required    bool               `bson:"required"`
	CreatedAt   int64              `bson:"created_at"`
}

type mongoResponse struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	StudentID       string             `bson:"student_id"`
	QuestionnaireID string             `bson:"questionnaire_id"`
	Answers         map[string]string  `bson:"answers"`
	CreatedAt       int64              `bson:"created_at"`
}

func toDomainQuestionnaire(m mongoQuestionnaire) *domain.Questionnaire {
	return &domain.Questionnaire{
		ID:          m.ID.Hex(),
		Title:       m.Title,
		Description: m.Description,
		Required:    m.Required,
		CreatedAt:   unixToTime(m.CreatedAt),
	}
}

func toDomainResponse(m mongoResponse) *domain.QuestionnaireResponse {
	return &domain.QuestionnaireResponse{
		ID:              m.ID.Hex(),
		StudentID:       m.StudentID,
		QuestionnaireID: m.QuestionnaireID,
		Answers:         m.Answers,
		CreatedAt:       unixToTime(m.CreatedAt),
	}
}

func (r *QuestionnaireRepository) CreateQuestionnaire(ctx context.Context, q *domain.Questionnaire) (*domain.Questionnaire, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := mongoQuestionnaire{
		Title:       q.Title,
		Description: q.Description,
		Required:    q.Required,
		CreatedAt:   q.CreatedAt.Unix(),
	}

	res, err := r.questionnaires.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert questionnaire: %w", err)
	}

	created := *q
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *QuestionnaireRepository) FindQuestionnaireByID(ctx context.Context, id string) (*domain.Questionnaire, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoQuestionnaire
	if err := r.questionnaires.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find questionnaire: %w", err)
	}
	return toDomainQuestionnaire(m), nil
}

func (r *QuestionnaireRepository) ListQuestionnaires(ctx context.Context) ([]*domain.Questionnaire, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.questionnaires.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	defer cur.Close(ctx)

	var forms []*domain.Questionnaire
	for cur.Next(ctx) {
		var m mongoQuestionnaire
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode questionnaire: %w", err)
		}
		forms = append(forms, toDomainQuestionnaire(m))
	}
	return forms, cur.Err()
}

func (r *QuestionnaireRepository) CreateResponse(ctx context.Context, resp *domain.QuestionnaireResponse) (*domain.QuestionnaireResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := mongoResponse{
		StudentID:       resp.StudentID,
		QuestionnaireID: resp.QuestionnaireID,
		Answers:         resp.Answers,
		CreatedAt:       resp.CreatedAt.Unix(),
	}

	res, err := r.responses.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert questionnaire response: %w", err)
	}

	created := *resp
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *QuestionnaireRepository) ListResponsesByStudent(ctx context.Context, studentID string) ([]*domain.QuestionnaireResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.responses.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("list questionnaire responses: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.QuestionnaireResponse
	for cur.Next(ctx) {
		var m mongoResponse
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode questionnaire response: %w", err)
		}
		out = append(out, toDomainResponse(m))
	}
	return out, cur.Err()
}
