package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates exam attempt states.
type AttemptStatus string

const (
	AttemptStatusOngoing       AttemptStatus = "ONGOING"
	AttemptStatusSubmitted     AttemptStatus = "SUBMITTED"
	AttemptStatusAutoSubmitted AttemptStatus = "AUTO_SUBMITTED"
	AttemptStatusAbandoned     AttemptStatus = "ABANDONED"
	AttemptStatusEvaluated     AttemptStatus = "EVALUATED"
)

// IsTerminal reports whether the status admits no further transitions
// from the attempt-taking paths. EVALUATED is set by the grading side
// after SUBMITTED/AUTO_SUBMITTED and is terminal as well.
func (s AttemptStatus) IsTerminal() bool {
	return s != AttemptStatusOngoing
}

// SubmitReason enumerates why an attempt was terminated.
type SubmitReason string

const (
	SubmitReasonManual             SubmitReason = "manual"
	SubmitReasonTimeExpired        SubmitReason = "time_expired"
	SubmitReasonIntegrityViolation SubmitReason = "integrity_violation"
)

// StatusForReason maps a submit reason to the terminal status it produces.
// Manual submission yields SUBMITTED; every forced path yields AUTO_SUBMITTED.
func StatusForReason(reason SubmitReason) (AttemptStatus, bool) {
	switch reason {
	case SubmitReasonManual:
		return AttemptStatusSubmitted, true
	case SubmitReasonTimeExpired, SubmitReasonIntegrityViolation:
		return AttemptStatusAutoSubmitted, true
	default:
		return "", false
	}
}

// Attempt represents one student's session on one exam.
type Attempt struct {
	ID               uuid.UUID     `json:"id"`
	ExamID           uuid.UUID     `json:"exam_id"`
	StudentID        int           `json:"student_id"`
	AttemptNumber    int           `json:"attempt_number"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       *time.Time    `json:"finished_at,omitempty"`
	TimeSpentSeconds int           `json:"time_spent_seconds"`
	DurationMinutes  int           `json:"duration_minutes"`
	Status           AttemptStatus `json:"status"`
	SubmitReason     *SubmitReason `json:"submit_reason,omitempty"`
}

// StartAttemptRequest is the payload for starting a new attempt.
type StartAttemptRequest struct {
	ExamID uuid.UUID `json:"exam_id" binding:"required"`
}
