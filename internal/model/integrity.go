package model

import (
	"time"

	"github.com/google/uuid"
)

// IntegrityEventType enumerates observed anti-cheat signals.
type IntegrityEventType string

const (
	EventTabSwitch     IntegrityEventType = "TAB_SWITCH"
	EventWindowBlur    IntegrityEventType = "WINDOW_BLUR"
	EventCopyPaste     IntegrityEventType = "COPY_PASTE"
	EventNoFace        IntegrityEventType = "NO_FACE_DETECTED"
	EventMultipleFaces IntegrityEventType = "MULTIPLE_FACES_DETECTED"
)

// Severity grades an integrity event.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// IsSevere reports whether the severity counts toward the
// forced-termination threshold.
func (s Severity) IsSevere() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// IntegrityEvent is one suspicious-activity signal on an attempt.
// Append-only; never updated or deleted.
type IntegrityEvent struct {
	ID          uuid.UUID          `json:"id"`
	AttemptID   uuid.UUID          `json:"attempt_id"`
	EventType   IntegrityEventType `json:"event_type"`
	Severity    Severity           `json:"severity"`
	Description string             `json:"description,omitempty"`
	RecordedAt  time.Time          `json:"recorded_at"`
}

// RecordEventRequest is the payload for reporting an integrity event.
type RecordEventRequest struct {
	EventType   IntegrityEventType `json:"event_type" binding:"required,oneof=TAB_SWITCH WINDOW_BLUR COPY_PASTE NO_FACE_DETECTED MULTIPLE_FACES_DETECTED"`
	Severity    Severity           `json:"severity" binding:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	Description string             `json:"description" binding:"omitempty,max=500"`
}

// RecordEventResponse tells the client whether this event tripped the
// auto-submission threshold, so it can lock the exam UI immediately.
type RecordEventResponse struct {
	Recorded      bool `json:"recorded"`
	SevereCount   int  `json:"severe_count"`
	AutoSubmitted bool `json:"auto_submitted"`
}
