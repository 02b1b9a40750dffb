package domain

import "time"

// Questionnaire is a form students are asked to fill in.
type Questionnaire struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestionnaireResponse is one student's answers to a questionnaire.
type QuestionnaireResponse struct {
	ID              string            `json:"id"`
	StudentID       string            `json:"student_id"`
	QuestionnaireID string            `json:"questionnaire_id"`
	Answers         map[string]string `json:"answers"`
	CreatedAt       time.Time         `json:"created_at"`
}
