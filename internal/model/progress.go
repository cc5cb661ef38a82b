package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressSnapshot is the latest resumable UI state of an attempt.
// Exactly one row per attempt, overwritten on every autosave heartbeat.
// Advisory only — the answer ledger stays the system of record for grading.
type ProgressSnapshot struct {
	AttemptID            uuid.UUID         `json:"attempt_id"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	Answers              map[string]string `json:"answers"` // question_id → transient answer payload
	Flagged              []string          `json:"flagged"` // question_ids flagged for review
	SavedAt              time.Time         `json:"saved_at"`
}

// SaveProgressRequest is the autosave heartbeat payload.
// TimeSpentSeconds is the cumulative value as measured by the client,
// which is the timer authority for an ongoing attempt.
type SaveProgressRequest struct {
	CurrentQuestionIndex int               `json:"current_question_index" binding:"min=0"`
	Answers              map[string]string `json:"answers"`
	Flagged              []string          `json:"flagged" binding:"omitempty,dive,uuid"`
	TimeSpentSeconds     int               `json:"time_spent_seconds" binding:"min=0"`
}

// ResumeState is returned to a reconnecting client: the last snapshot with
// ledger-committed answers merged over it.
type ResumeState struct {
	AttemptID            uuid.UUID         `json:"attempt_id"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	Answers              map[string]string `json:"answers"`
	Flagged              []string          `json:"flagged"`
	TimeSpentSeconds     int               `json:"time_spent_seconds"`
	SavedAt              *time.Time        `json:"saved_at,omitempty"`
}
