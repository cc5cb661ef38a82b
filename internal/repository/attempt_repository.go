package repository

import (
	"context"
	"time"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository handles exam attempt data access. The exam_attempts row is
// the single source of truth for "is this attempt still writable"; every
// mutation here is a single atomic statement so concurrent requests converge
// on one terminal state.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// StartOngoing inserts a new ONGOING attempt with the next attempt number.
// A partial unique index on (exam_id, student_id) WHERE status = 'ONGOING'
// makes the insert a no-op when an ongoing attempt already exists; pgx then
// surfaces ErrNoRows from the RETURNING scan, which the caller maps to a
// conflict.
func (r *AttemptRepository) StartOngoing(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_attempts (exam_id, student_id, attempt_number, duration_minutes, status)
		 VALUES ($1, $2,
		         (SELECT COALESCE(MAX(attempt_number), 0) + 1
		          FROM exam_attempts
		          WHERE exam_id = $1 AND student_id = $2),
		         $3, $4)
		 ON CONFLICT (exam_id, student_id) WHERE status = 'ONGOING' DO NOTHING
		 RETURNING id, attempt_number, started_at`,
		a.ExamID, a.StudentID, a.DurationMinutes, model.AttemptStatusOngoing,
	).Scan(&a.ID, &a.AttemptNumber, &a.StartedAt)
}

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, attempt_number, started_at, finished_at,
		        time_spent_seconds, duration_minutes, status, submit_reason
		 FROM exam_attempts
		 WHERE id = $1`, id,
	).Scan(&a.ID, &a.ExamID, &a.StudentID, &a.AttemptNumber, &a.StartedAt, &a.FinishedAt,
		&a.TimeSpentSeconds, &a.DurationMinutes, &a.Status, &a.SubmitReason)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetOwned retrieves an attempt only if it belongs to the given student.
func (r *AttemptRepository) GetOwned(ctx context.Context, id uuid.UUID, studentID int) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, attempt_number, started_at, finished_at,
		        time_spent_seconds, duration_minutes, status, submit_reason
		 FROM exam_attempts
		 WHERE id = $1 AND student_id = $2`, id, studentID,
	).Scan(&a.ID, &a.ExamID, &a.StudentID, &a.AttemptNumber, &a.StartedAt, &a.FinishedAt,
		&a.TimeSpentSeconds, &a.DurationMinutes, &a.Status, &a.SubmitReason)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetOngoingByExamAndStudent retrieves the ongoing attempt for a student on an
// exam, if one exists.
func (r *AttemptRepository) GetOngoingByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, attempt_number, started_at, finished_at,
		        time_spent_seconds, duration_minutes, status, submit_reason
		 FROM exam_attempts
		 WHERE exam_id = $1 AND student_id = $2 AND status = $3`,
		examID, studentID, model.AttemptStatusOngoing,
	).Scan(&a.ID, &a.ExamID, &a.StudentID, &a.AttemptNumber, &a.StartedAt, &a.FinishedAt,
		&a.TimeSpentSeconds, &a.DurationMinutes, &a.Status, &a.SubmitReason)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByStudent retrieves all attempts for a student, newest first.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, student_id, attempt_number, started_at, finished_at,
		        time_spent_seconds, duration_minutes, status, submit_reason
		 FROM exam_attempts
		 WHERE student_id = $1
		 ORDER BY started_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.AttemptNumber, &a.StartedAt, &a.FinishedAt,
			&a.TimeSpentSeconds, &a.DurationMinutes, &a.Status, &a.SubmitReason); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Finish transitions an attempt to a terminal state. The WHERE clause makes
// the transition conditional on the attempt still being ONGOING, so a racing
// second submit affects zero rows and the terminal state is written exactly
// once. Returns whether this call performed the transition.
func (r *AttemptRepository) Finish(ctx context.Context, id uuid.UUID, status model.AttemptStatus, reason model.SubmitReason) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_attempts
		 SET status = $2, submit_reason = $3, finished_at = NOW()
		 WHERE id = $1 AND status = $4`,
		id, status, reason, model.AttemptStatusOngoing)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// WriteTimeSpent records the client-reported cumulative time spent. GREATEST
// keeps the value monotonic even when heartbeats arrive out of order, and the
// status condition drops stale heartbeats racing a submit.
func (r *AttemptRepository) WriteTimeSpent(ctx context.Context, id uuid.UUID, seconds int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_attempts
		 SET time_spent_seconds = GREATEST(time_spent_seconds, $2)
		 WHERE id = $1 AND status = $3`,
		id, seconds, model.AttemptStatusOngoing)
	return err
}

// ListExpiredIDs returns ongoing attempts that ran past their duration
// allowance plus the grace period. Consumed by the expiry worker.
func (r *AttemptRepository) ListExpiredIDs(ctx context.Context, grace time.Duration) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id
		 FROM exam_attempts
		 WHERE status = $1
		   AND started_at + make_interval(mins => duration_minutes) + make_interval(secs => $2::float8) < NOW()`,
		model.AttemptStatusOngoing, grace.Seconds(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AttemptOverview combines an attempt with the owning student for proctor
// and admin listings.
type AttemptOverview struct {
	model.Attempt
	StudentName string `json:"student_name"`
	StudentCode string `json:"student_code"`
}

// ListByExam retrieves attempts for an exam with student info, paginated.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID uuid.UUID, limit, offset int) ([]AttemptOverview, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_attempts WHERE exam_id = $1`, examID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.exam_id, a.student_id, a.attempt_number, a.started_at, a.finished_at,
		        a.time_spent_seconds, a.duration_minutes, a.status, a.submit_reason,
		        s.name, s.code
		 FROM exam_attempts a
		 JOIN students s ON a.student_id = s.id
		 WHERE a.exam_id = $1
		 ORDER BY s.name ASC, a.attempt_number DESC
		 LIMIT $2 OFFSET $3`,
		examID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var overviews []AttemptOverview
	for rows.Next() {
		var o AttemptOverview
		if err := rows.Scan(&o.ID, &o.ExamID, &o.StudentID, &o.AttemptNumber, &o.StartedAt, &o.FinishedAt,
			&o.TimeSpentSeconds, &o.DurationMinutes, &o.Status, &o.SubmitReason,
			&o.StudentName, &o.StudentCode); err != nil {
			return nil, 0, err
		}
		overviews = append(overviews, o)
	}
	return overviews, total, rows.Err()
}
