package repository

import (
	"context"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository persists operator-visible notifications written by
// the notify worker.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Insert stores one notification.
func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (attempt_id, exam_id, student_id, kind, reason, message)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		n.AttemptID, n.ExamID, n.StudentID, n.Kind, n.Reason, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
}

// ListRecent retrieves the newest notifications, paginated.
func (r *NotificationRepository) ListRecent(ctx context.Context, limit, offset int) ([]model.Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, exam_id, student_id, kind, reason, message, created_at
		 FROM notifications
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.AttemptID, &n.ExamID, &n.StudentID, &n.Kind, &n.Reason, &n.Message, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}
