package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/metrics"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// IntegrityService records proctoring signals and enforces the
// forced-termination threshold.
type IntegrityService struct {
	attemptSvc    *AttemptService
	integrityRepo *repository.IntegrityRepository
	rdb           *redis.Client
	threshold     int
	log           zerolog.Logger
}

// NewIntegrityService creates a new IntegrityService.
func NewIntegrityService(
	attemptSvc *AttemptService,
	integrityRepo *repository.IntegrityRepository,
	rdb *redis.Client,
	threshold int,
	log zerolog.Logger,
) *IntegrityService {
	return &IntegrityService{
		attemptSvc:    attemptSvc,
		integrityRepo: integrityRepo,
		rdb:           rdb,
		threshold:     threshold,
		log:           log.With().Str("component", "integrity_service").Logger(),
	}
}

// integrityFeedEvent is the message published to the exam's proctor channel.
type integrityFeedEvent struct {
	AttemptID   string                   `json:"attempt_id"`
	StudentID   int                      `json:"student_id"`
	EventType   model.IntegrityEventType `json:"event_type"`
	Severity    model.Severity           `json:"severity"`
	Description string                   `json:"description,omitempty"`
	SevereCount int                      `json:"severe_count"`
	RecordedAt  time.Time                `json:"recorded_at"`
}

// Record appends an integrity event and evaluates the severe-event threshold.
// Events are accepted even after the attempt turned terminal — delayed client
// reports still land in the log — but only ongoing attempts can be
// force-submitted, so the threshold never fires twice.
func (s *IntegrityService) Record(ctx context.Context, attemptID uuid.UUID, studentID int, req *model.RecordEventRequest) (*model.RecordEventResponse, error) {
	attempt, err := s.attemptSvc.GetOwned(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	ev := &model.IntegrityEvent{
		AttemptID:   attemptID,
		EventType:   req.EventType,
		Severity:    req.Severity,
		Description: req.Description,
	}
	if err := s.integrityRepo.Insert(ctx, ev); err != nil {
		return nil, fmt.Errorf("record integrity event: %w", err)
	}

	metrics.IntegrityEvents.WithLabelValues(string(req.Severity)).Inc()

	severeCount, err := s.integrityRepo.CountSevere(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("count severe events: %w", err)
	}

	s.publishFeedEvent(ctx, attempt, ev, severeCount)

	resp := &model.RecordEventResponse{
		Recorded:    true,
		SevereCount: severeCount,
	}

	if severeCount >= s.threshold && !attempt.Status.IsTerminal() {
		_, did, err := s.attemptSvc.Submit(ctx, attemptID, studentID, model.SubmitReasonIntegrityViolation)
		if err != nil {
			return nil, fmt.Errorf("force submit: %w", err)
		}
		resp.AutoSubmitted = did
		if did {
			s.log.Warn().
				Str("attempt_id", attemptID.String()).
				Int("severe_count", severeCount).
				Msg("Attempt force-submitted for integrity violations")
		}
	}

	return resp, nil
}

// List returns the chronological event log for an attempt.
func (s *IntegrityService) List(ctx context.Context, attemptID uuid.UUID) ([]model.IntegrityEvent, error) {
	if _, err := s.attemptSvc.Get(ctx, attemptID); err != nil {
		return nil, err
	}
	return s.integrityRepo.ListByAttempt(ctx, attemptID)
}

// publishFeedEvent pushes the event onto the exam's live proctor channel.
// Best effort: the durable log already has the row.
func (s *IntegrityService) publishFeedEvent(ctx context.Context, attempt *model.Attempt, ev *model.IntegrityEvent, severeCount int) {
	msg := integrityFeedEvent{
		AttemptID:   attempt.ID.String(),
		StudentID:   attempt.StudentID,
		EventType:   ev.EventType,
		Severity:    ev.Severity,
		Description: ev.Description,
		SevereCount: severeCount,
		RecordedAt:  ev.RecordedAt,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal integrity feed event")
		return
	}
	channel := config.CacheKey.ExamIntegrityChannel(attempt.ExamID.String())
	if err := s.rdb.Publish(ctx, channel, data).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("Failed to publish integrity event")
	}
}
