package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind enumerates operator-visible notification types.
type NotificationKind string

const (
	NotificationForcedSubmit NotificationKind = "FORCED_SUBMIT"
)

// ForcedSubmitJob is the queue payload pushed when an attempt is
// force-submitted, consumed by the notify worker.
type ForcedSubmitJob struct {
	AttemptID string       `json:"attempt_id"`
	ExamID    string       `json:"exam_id"`
	StudentID int          `json:"student_id"`
	Reason    SubmitReason `json:"reason"`
	Timestamp int64        `json:"timestamp"`
}

// Notification is an operator-visible record of a noteworthy attempt event,
// currently forced submissions only.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	AttemptID uuid.UUID        `json:"attempt_id"`
	ExamID    uuid.UUID        `json:"exam_id"`
	StudentID int              `json:"student_id"`
	Kind      NotificationKind `json:"kind"`
	Reason    SubmitReason     `json:"reason"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}
