package repository

import (
	"context"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonitorRepository provides aggregate queries for the proctor monitoring view.
type MonitorRepository struct {
	pool *pgxpool.Pool
}

// NewMonitorRepository creates a new MonitorRepository.
func NewMonitorRepository(pool *pgxpool.Pool) *MonitorRepository {
	return &MonitorRepository{pool: pool}
}

// GetOngoingStudentIDs returns all student IDs with an ongoing attempt on the exam.
func (r *MonitorRepository) GetOngoingStudentIDs(ctx context.Context, examID uuid.UUID) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id FROM exam_attempts WHERE exam_id = $1 AND status = $2`,
		examID, model.AttemptStatusOngoing,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetAnsweredCounts returns, per student, how many questions they have
// ledger-committed answers for in the given exam.
func (r *MonitorRepository) GetAnsweredCounts(ctx context.Context, examID uuid.UUID) (map[int]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.student_id, COUNT(*)
		 FROM attempt_answers aa
		 JOIN exam_attempts a ON aa.attempt_id = a.id
		 WHERE a.exam_id = $1
		 GROUP BY a.student_id`,
		examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var sid int
		var count int64
		if err := rows.Scan(&sid, &count); err != nil {
			return nil, err
		}
		counts[sid] = count
	}
	return counts, rows.Err()
}

// GetSevereEventCounts returns, per student, the number of HIGH/CRITICAL
// integrity events recorded against their attempts on the given exam.
func (r *MonitorRepository) GetSevereEventCounts(ctx context.Context, examID uuid.UUID) (map[int]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.student_id, COUNT(*)
		 FROM integrity_events ie
		 JOIN exam_attempts a ON ie.attempt_id = a.id
		 WHERE a.exam_id = $1 AND ie.severity IN ($2, $3)
		 GROUP BY a.student_id`,
		examID, model.SeverityHigh, model.SeverityCritical,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var sid int
		var count int64
		if err := rows.Scan(&sid, &count); err != nil {
			return nil, err
		}
		counts[sid] = count
	}
	return counts, rows.Err()
}
