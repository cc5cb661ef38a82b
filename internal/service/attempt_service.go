package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/metrics"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors for the attempt lifecycle. ErrAttemptNotOngoing and
// ErrOngoingAttemptExists are routine outcomes of concurrent client behavior,
// not failures — callers map them to responses without error-level logging.
var (
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptNotOngoing    = errors.New("exam already submitted")
	ErrOngoingAttemptExists = errors.New("an ongoing attempt already exists for this exam")
	ErrExamNotAvailable     = errors.New("exam is not available")
	ErrInvalidSubmitReason  = errors.New("invalid submit reason")
)

// AttemptService is the sole authority for attempt state transitions. Every
// other component re-validates attempt state through it before mutating
// attempt-scoped data.
type AttemptService struct {
	attemptRepo *repository.AttemptRepository
	examRepo    *repository.ExamRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		examRepo:    examRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start begins a new attempt for a student on an exam. The duration allowance
// is copied from the exam definition at this moment; later edits to the exam
// do not affect running attempts. Fails with ErrOngoingAttemptExists when the
// student already has an ongoing attempt on this exam.
func (s *AttemptService) Start(ctx context.Context, studentID int, examID uuid.UUID) (*model.Attempt, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotAvailable
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	if exam.Status != model.ExamStatusPublished {
		return nil, ErrExamNotAvailable
	}
	now := time.Now()
	if exam.ScheduledStart != nil && now.Before(*exam.ScheduledStart) {
		return nil, ErrExamNotAvailable
	}
	if exam.ScheduledEnd != nil && now.After(*exam.ScheduledEnd) {
		return nil, ErrExamNotAvailable
	}

	attempt := &model.Attempt{
		ExamID:          examID,
		StudentID:       studentID,
		DurationMinutes: exam.DurationMinutes,
		Status:          model.AttemptStatusOngoing,
	}

	if err := s.attemptRepo.StartOngoing(ctx, attempt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The partial unique index swallowed the insert: an ongoing
			// attempt already exists for this (student, exam).
			return nil, ErrOngoingAttemptExists
		}
		return nil, fmt.Errorf("start attempt: %w", err)
	}

	metrics.AttemptsStarted.Inc()

	// Best-effort pointer for the portal's "resume where you left off".
	activeKey := config.CacheKey.StudentActiveAttemptKey(studentID)
	if err := s.rdb.Set(ctx, activeKey, attempt.ID.String(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Failed to cache active attempt")
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("exam_id", examID.String()).
		Int("student_id", studentID).
		Int("attempt_number", attempt.AttemptNumber).
		Msg("Attempt started")

	return attempt, nil
}

// RequireOngoing is the guard used by every write path. It re-reads the
// attempt row at call time, never a cached decision, so a write racing a
// submit observes the terminal state. Returns ErrAttemptNotFound when the
// attempt is missing or not owned by the caller, ErrAttemptNotOngoing when
// it is terminal.
func (s *AttemptService) RequireOngoing(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetOwned(ctx, attemptID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.Status.IsTerminal() {
		return nil, ErrAttemptNotOngoing
	}
	return attempt, nil
}

// GetOwned retrieves an attempt owned by the student regardless of state.
// Used by paths that stay legal after termination (integrity recording,
// answer review).
func (s *AttemptService) GetOwned(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetOwned(ctx, attemptID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}

// Get retrieves any attempt by ID, for staff read paths.
func (s *AttemptService) Get(ctx context.Context, attemptID uuid.UUID) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}

// Submit transitions an attempt to its terminal state. studentID > 0 scopes
// the lookup to the owning student; 0 means a system caller (expiry worker,
// integrity monitor). Idempotent against races: when a concurrent submit wins,
// this call observes the terminal attempt and reports success with
// transitioned=false, so no double-processing happens downstream.
func (s *AttemptService) Submit(ctx context.Context, attemptID uuid.UUID, studentID int, reason model.SubmitReason) (*model.Attempt, bool, error) {
	status, ok := model.StatusForReason(reason)
	if !ok {
		return nil, false, ErrInvalidSubmitReason
	}

	attempt, err := s.lookup(ctx, attemptID, studentID)
	if err != nil {
		return nil, false, err
	}

	if attempt.Status.IsTerminal() {
		return attempt, false, nil
	}

	transitioned, err := s.attemptRepo.Finish(ctx, attemptID, status, reason)
	if err != nil {
		return nil, false, fmt.Errorf("finish attempt: %w", err)
	}

	// Re-read either way: the winner needs finished_at, the loser needs the
	// state the winner wrote.
	attempt, err = s.lookup(ctx, attemptID, studentID)
	if err != nil {
		return nil, false, err
	}

	if !transitioned {
		return attempt, false, nil
	}

	metrics.AttemptsFinished.WithLabelValues(string(reason)).Inc()

	activeKey := config.CacheKey.StudentActiveAttemptKey(attempt.StudentID)
	if err := s.rdb.Del(ctx, activeKey).Err(); err != nil {
		s.log.Warn().Err(err).Int("student_id", attempt.StudentID).Msg("Failed to clear active attempt")
	}

	if reason != model.SubmitReasonManual {
		s.enqueueForcedSubmitNotice(ctx, attempt, reason)
	}

	s.log.Info().
		Str("attempt_id", attemptID.String()).
		Str("reason", string(reason)).
		Str("status", string(attempt.Status)).
		Msg("Attempt finished")

	return attempt, true, nil
}

// RecordTimeSpent writes the client-reported cumulative time through to the
// attempt. Monotonicity and the ongoing-only condition live in the SQL.
func (s *AttemptService) RecordTimeSpent(ctx context.Context, attemptID uuid.UUID, seconds int) error {
	return s.attemptRepo.WriteTimeSpent(ctx, attemptID, seconds)
}

// ListExpiredIDs exposes the expiry scan to the worker.
func (s *AttemptService) ListExpiredIDs(ctx context.Context, grace time.Duration) ([]uuid.UUID, error) {
	return s.attemptRepo.ListExpiredIDs(ctx, grace)
}

func (s *AttemptService) lookup(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	var (
		attempt *model.Attempt
		err     error
	)
	if studentID > 0 {
		attempt, err = s.attemptRepo.GetOwned(ctx, attemptID, studentID)
	} else {
		attempt, err = s.attemptRepo.GetByID(ctx, attemptID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}

func (s *AttemptService) enqueueForcedSubmitNotice(ctx context.Context, attempt *model.Attempt, reason model.SubmitReason) {
	job := model.ForcedSubmitJob{
		AttemptID: attempt.ID.String(),
		ExamID:    attempt.ExamID.String(),
		StudentID: attempt.StudentID,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}
	data, err := json.Marshal(job)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal forced submit job")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.NotifyForcedSubmitQueue, data).Err(); err != nil {
		// The transition itself already committed; losing the notice is
		// operator-visibility loss only.
		s.log.Error().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Failed to enqueue forced submit notice")
	}
}

// LobbyStatus represents the concrete state of an exam in the student lobby.
type LobbyStatus string

const (
	LobbyStatusAvailable  LobbyStatus = "AVAILABLE"
	LobbyStatusUpcoming   LobbyStatus = "UPCOMING"
	LobbyStatusInProgress LobbyStatus = "IN_PROGRESS"
	LobbyStatusCompleted  LobbyStatus = "COMPLETED"
)

// LobbyExam represents an exam as displayed in the student lobby.
type LobbyExam struct {
	model.Exam
	LobbyStatus   LobbyStatus          `json:"lobby_status"`
	AttemptID     *uuid.UUID           `json:"attempt_id,omitempty"`
	AttemptStatus *model.AttemptStatus `json:"attempt_status,omitempty"`
}

// Lobby returns published exams overlaid with the student's attempt state.
func (s *AttemptService) Lobby(ctx context.Context, studentID int) ([]LobbyExam, error) {
	exams, err := s.examRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published exams: %w", err)
	}

	attempts, err := s.attemptRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	// Latest attempt per exam; ListByStudent is newest-first.
	latest := make(map[uuid.UUID]*model.Attempt, len(attempts))
	for i := range attempts {
		if _, ok := latest[attempts[i].ExamID]; !ok {
			latest[attempts[i].ExamID] = &attempts[i]
		}
	}

	now := time.Now()
	var lobby []LobbyExam
	for i := range exams {
		exam := exams[i]
		entry := LobbyExam{Exam: exam, LobbyStatus: LobbyStatusAvailable}

		if a, ok := latest[exam.ID]; ok {
			entry.AttemptID = &a.ID
			entry.AttemptStatus = &a.Status
			if a.Status == model.AttemptStatusOngoing {
				entry.LobbyStatus = LobbyStatusInProgress
			} else {
				entry.LobbyStatus = LobbyStatusCompleted
			}
		} else if exam.ScheduledStart != nil && exam.ScheduledStart.After(now) {
			entry.LobbyStatus = LobbyStatusUpcoming
		}

		lobby = append(lobby, entry)
	}

	return lobby, nil
}

// ListByExam returns attempts with student info for staff views.
func (s *AttemptService) ListByExam(ctx context.Context, examID uuid.UUID, limit, offset int) ([]repository.AttemptOverview, int, error) {
	return s.attemptRepo.ListByExam(ctx, examID, limit, offset)
}
