package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akademix/examly-backend/internal/metrics"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ProgressService handles autosave heartbeats and resume reconstruction.
type ProgressService struct {
	attemptSvc   *AttemptService
	progressRepo *repository.ProgressRepository
	answerRepo   *repository.AnswerRepository
	log          zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	attemptSvc *AttemptService,
	progressRepo *repository.ProgressRepository,
	answerRepo *repository.AnswerRepository,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		attemptSvc:   attemptSvc,
		progressRepo: progressRepo,
		answerRepo:   answerRepo,
		log:          log.With().Str("component", "progress_service").Logger(),
	}
}

// Save stores the autosave heartbeat for an ongoing attempt and writes the
// client-reported time through to the attempt. Heartbeats against terminal
// attempts are rejected, not dropped, so the client learns the exam is over.
func (s *ProgressService) Save(ctx context.Context, attemptID uuid.UUID, studentID int, req *model.SaveProgressRequest) (*model.ProgressSnapshot, error) {
	if _, err := s.attemptSvc.RequireOngoing(ctx, attemptID, studentID); err != nil {
		if errors.Is(err, ErrAttemptNotOngoing) {
			metrics.StaleWrites.WithLabelValues("heartbeat").Inc()
		}
		return nil, err
	}

	snap := &model.ProgressSnapshot{
		AttemptID:            attemptID,
		CurrentQuestionIndex: req.CurrentQuestionIndex,
		Answers:              req.Answers,
		Flagged:              req.Flagged,
	}
	if snap.Answers == nil {
		snap.Answers = map[string]string{}
	}
	if snap.Flagged == nil {
		snap.Flagged = []string{}
	}

	if err := s.progressRepo.Upsert(ctx, snap); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	if err := s.attemptSvc.RecordTimeSpent(ctx, attemptID, req.TimeSpentSeconds); err != nil {
		return nil, fmt.Errorf("record time spent: %w", err)
	}

	metrics.HeartbeatsSaved.Inc()
	return snap, nil
}

// Resume rebuilds the state a reconnecting client should restore: the last
// snapshot with ledger-committed answers merged over it. Only ongoing attempts
// are resumable.
func (s *ProgressService) Resume(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.ResumeState, error) {
	attempt, err := s.attemptSvc.RequireOngoing(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	snap, err := s.progressRepo.Get(ctx, attemptID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get progress: %w", err)
		}
		snap = nil
	}

	records, err := s.answerRepo.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	state := MergeResume(attempt, snap, records)
	return state, nil
}

// MergeResume combines a progress snapshot (possibly nil) with the answer
// ledger. The ledger wins per question: a committed answer save is at least as
// recent a statement of intent as any snapshot of the same question, and the
// ledger is what grading will read.
func MergeResume(attempt *model.Attempt, snap *model.ProgressSnapshot, records []model.AnswerRecord) *model.ResumeState {
	state := &model.ResumeState{
		AttemptID:        attempt.ID,
		Answers:          map[string]string{},
		Flagged:          []string{},
		TimeSpentSeconds: attempt.TimeSpentSeconds,
	}

	if snap != nil {
		state.CurrentQuestionIndex = snap.CurrentQuestionIndex
		for qid, payload := range snap.Answers {
			state.Answers[qid] = payload
		}
		state.Flagged = append(state.Flagged, snap.Flagged...)
		savedAt := snap.SavedAt
		state.SavedAt = &savedAt
	}

	flagged := make(map[string]bool, len(state.Flagged))
	for _, qid := range state.Flagged {
		flagged[qid] = true
	}

	for i := range records {
		rec := &records[i]
		qid := rec.QuestionID.String()

		if rec.SelectedOption != nil {
			state.Answers[qid] = *rec.SelectedOption
		} else if rec.AnswerText != nil {
			state.Answers[qid] = *rec.AnswerText
		}

		// The ledger also wins on flag state for questions it covers.
		flagged[qid] = rec.Flagged
	}

	state.Flagged = state.Flagged[:0]
	for qid, on := range flagged {
		if on {
			state.Flagged = append(state.Flagged, qid)
		}
	}

	return state
}
