package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressRepository handles progress snapshot data access. Exactly one row
// per attempt regardless of heartbeat frequency.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Upsert creates the snapshot row on the first autosave and overwrites it on
// every subsequent one. Single atomic statement, so two racing heartbeats
// cannot duplicate the row.
func (r *ProgressRepository) Upsert(ctx context.Context, snap *model.ProgressSnapshot) error {
	answers, err := json.Marshal(snap.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	flagged, err := json.Marshal(snap.Flagged)
	if err != nil {
		return fmt.Errorf("marshal flagged: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO attempt_progress (attempt_id, current_question_index, answers, flagged, saved_at)
		 VALUES ($1, $2, $3::jsonb, $4::jsonb, NOW())
		 ON CONFLICT (attempt_id) DO UPDATE
		 SET current_question_index = EXCLUDED.current_question_index,
		     answers = EXCLUDED.answers,
		     flagged = EXCLUDED.flagged,
		     saved_at = NOW()
		 RETURNING saved_at`,
		snap.AttemptID, snap.CurrentQuestionIndex, answers, flagged,
	).Scan(&snap.SavedAt)
}

// Get retrieves the snapshot for an attempt. Returns pgx.ErrNoRows when the
// attempt has never autosaved.
func (r *ProgressRepository) Get(ctx context.Context, attemptID uuid.UUID) (*model.ProgressSnapshot, error) {
	snap := &model.ProgressSnapshot{AttemptID: attemptID}
	var answers, flagged []byte

	err := r.pool.QueryRow(ctx,
		`SELECT current_question_index, answers, flagged, saved_at
		 FROM attempt_progress
		 WHERE attempt_id = $1`, attemptID,
	).Scan(&snap.CurrentQuestionIndex, &answers, &flagged, &snap.SavedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(answers, &snap.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if err := json.Unmarshal(flagged, &snap.Flagged); err != nil {
		return nil, fmt.Errorf("unmarshal flagged: %w", err)
	}
	return snap, nil
}
