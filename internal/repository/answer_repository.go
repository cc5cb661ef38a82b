package repository

import (
	"context"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnswerRepository handles durable per-question answer storage — the system
// of record consumed by grading and review.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert creates or updates the answer keyed on (attempt_id, question_id) in
// a single statement. Two rapid saves for the same question (double-click,
// retry after timeout) land on the same row instead of duplicating it.
func (r *AnswerRepository) Upsert(ctx context.Context, rec *model.AnswerRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempt_answers (attempt_id, question_id, answer_text, selected_option, flagged, time_spent_seconds, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (attempt_id, question_id) DO UPDATE
		 SET answer_text = EXCLUDED.answer_text,
		     selected_option = EXCLUDED.selected_option,
		     flagged = EXCLUDED.flagged,
		     time_spent_seconds = EXCLUDED.time_spent_seconds,
		     updated_at = NOW()
		 RETURNING updated_at`,
		rec.AttemptID, rec.QuestionID, rec.AnswerText, rec.SelectedOption, rec.Flagged, rec.TimeSpentSeconds,
	).Scan(&rec.UpdatedAt)
}

// ListByAttempt retrieves all answer records for an attempt.
func (r *AnswerRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.AnswerRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attempt_id, question_id, answer_text, selected_option, flagged, time_spent_seconds, updated_at
		 FROM attempt_answers
		 WHERE attempt_id = $1
		 ORDER BY updated_at ASC`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AnswerRecord
	for rows.Next() {
		var rec model.AnswerRecord
		if err := rows.Scan(&rec.AttemptID, &rec.QuestionID, &rec.AnswerText, &rec.SelectedOption,
			&rec.Flagged, &rec.TimeSpentSeconds, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
