package repository

import (
	"context"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IntegrityRepository handles the append-only log of integrity events.
// Rows are never updated or deleted.
type IntegrityRepository struct {
	pool *pgxpool.Pool
}

// NewIntegrityRepository creates a new IntegrityRepository.
func NewIntegrityRepository(pool *pgxpool.Pool) *IntegrityRepository {
	return &IntegrityRepository{pool: pool}
}

// Insert appends one integrity event.
func (r *IntegrityRepository) Insert(ctx context.Context, ev *model.IntegrityEvent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO integrity_events (attempt_id, event_type, severity, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, recorded_at`,
		ev.AttemptID, ev.EventType, ev.Severity, ev.Description,
	).Scan(&ev.ID, &ev.RecordedAt)
}

// CountSevere returns the running count of HIGH/CRITICAL events for an
// attempt, used for the forced-termination threshold.
func (r *IntegrityRepository) CountSevere(ctx context.Context, attemptID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM integrity_events
		 WHERE attempt_id = $1 AND severity IN ($2, $3)`,
		attemptID, model.SeverityHigh, model.SeverityCritical,
	).Scan(&count)
	return count, err
}

// ListByAttempt retrieves all events for an attempt in chronological order.
func (r *IntegrityRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.IntegrityEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, event_type, severity, description, recorded_at
		 FROM integrity_events
		 WHERE attempt_id = $1
		 ORDER BY recorded_at ASC, id ASC`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.IntegrityEvent
	for rows.Next() {
		var ev model.IntegrityEvent
		if err := rows.Scan(&ev.ID, &ev.AttemptID, &ev.EventType, &ev.Severity, &ev.Description, &ev.RecordedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
