package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is one durable answer to one question within one attempt.
// Upserted by (attempt_id, question_id); immutable once the attempt is terminal.
type AnswerRecord struct {
	AttemptID        uuid.UUID `json:"attempt_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	AnswerText       *string   `json:"answer_text,omitempty"`
	SelectedOption   *string   `json:"selected_option,omitempty"`
	Flagged          bool      `json:"flagged"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SaveAnswerRequest is the payload for a per-question answer save.
type SaveAnswerRequest struct {
	AnswerText       *string `json:"answer_text" binding:"omitempty,max=8000"`
	SelectedOption   *string `json:"selected_option" binding:"omitempty,max=10"`
	Flagged          bool    `json:"flagged"`
	TimeSpentSeconds int     `json:"time_spent_seconds" binding:"min=0"`
}
