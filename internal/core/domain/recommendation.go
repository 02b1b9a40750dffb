package domain

import "time"

// RecommendationType classifies a generated recommendation.
type RecommendationType string

const (
	RecommendationUniversity  RecommendationType = "university"
	RecommendationImprovement RecommendationType = "improvement"
	RecommendationScholarship RecommendationType = "scholarship"
)

// Recommendation is a generated suggestion for a student: a programme to
// apply to, a profile improvement, or a scholarship to pursue.
type Recommendation struct {
	ID              string             `json:"id"`
	StudentID       string             `json:"student_id"`
	Type            RecommendationType `json:"type"`
	Title           string             `json:"title"`
	Subtitle        string             `json:"subtitle"`
	Description     string             `json:"description"`
	MatchPercentage int                `json:"match_percentage"`
	Details         map[string]string  `json:"details,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}
