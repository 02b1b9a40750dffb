package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

const recommendationCollection = "recommendations"

type RecommendationRepository struct {
	coll *mongo.Collection
}

func NewRecommendationRepository(db *mongo.Database) *RecommendationRepository {
	return &RecommendationRepository{coll: db.Collection(recommendationCollection)}
}

type mongoRecommendation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	StudentID       string             `bson:"student_id"`
	Type            string             `bson:"type"`
	Title           string             `bson:"title"`
	Subtitle        string             `bson:"subtitle"`
	Description     string             `bson:"description"`
	MatchPercentage int                `bson:"match_percentage"`
	Details         map[string]string  `bson:"details,omitempty"`
	CreatedAt       int64              `bson:"created_at"`
}

func toDomainRecommendation(m mongoRecommendation) *domain.Recommendation {
	return &domain.Recommendation{
		ID:              m.ID.Hex(),
		StudentID:       m.StudentID,
		Type:            domain.RecommendationType(m.Type),
		Title:           m.Title,
		Subtitle:        m.Subtitle,
		Description:     m.Description,
		MatchPercentage: m.MatchPercentage,
		Details:         m.Details,
		CreatedAt:       unixToTime(m.CreatedAt),
	}
}

// CreateMany replaces the student's stored recommendations with a fresh batch.
// Each generation run supersedes the previous one.
func (r *RecommendationRepository) CreateMany(ctx context.Context, recs []*domain.Recommendation) ([]*domain.Recommendation, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"student_id": recs[0].StudentID}); err != nil {
		return nil, fmt.Errorf("clear recommendations: %w", err)
	}

	docs := make([]interface{}, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, mongoRecommendation{
			StudentID:       rec.StudentID,
			Type:            string(rec.Type),
			Title:           rec.Title,
			Subtitle:        rec.Subtitle,
			Description:     rec.Description,
			MatchPercentage: rec.MatchPercentage,
			Details:         rec.Details,
			CreatedAt:       rec.CreatedAt.Unix(),
		})
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("insert recommendations: %w", err)
	}

	created := make([]*domain.Recommendation, len(recs))
	for i, rec := range recs {
		c := *rec
		if i < len(res.InsertedIDs) {
			if oid, ok := res.InsertedIDs[i].(primitive.ObjectID); ok {
				c.ID = oid.Hex()
			}
		}
		created[i] = &c
	}
	return created, nil
}

func (r *RecommendationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer cur.Close(ctx)

	var recs []*domain.Recommendation
	for cur.Next(ctx) {
		var m mongoRecommendation
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode recommendation: %w", err)
		}
		recs = append(recs, toDomainRecommendation(m))
	}
	return recs, cur.Err()
}
