package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	NotifyPollTimeout  = 1 * time.Second
	NotifyRequeueDelay = 2 * time.Second
)

// NotifyWorker drains the forced-submit queue into durable operator
// notifications.
type NotifyWorker struct {
	notificationRepo *repository.NotificationRepository
	rdb              *redis.Client
	log              zerolog.Logger
}

// NewNotifyWorker creates a new NotifyWorker.
func NewNotifyWorker(notificationRepo *repository.NotificationRepository, rdb *redis.Client, log zerolog.Logger) *NotifyWorker {
	return &NotifyWorker{
		notificationRepo: notificationRepo,
		rdb:              rdb,
		log:              log.With().Str("component", "notify_worker").Logger(),
	}
}

// Start runs the consume loop until ctx is canceled, then drains whatever is
// still queued.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotifyWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Draining notify queue...")
			w.drain(context.Background())
			return

		default:
			item, err := w.rdb.BLPop(ctx, NotifyPollTimeout, config.WorkerKey.NotifyForcedSubmitQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			w.processRaw(ctx, item[1])
		}
	}
}

func (w *NotifyWorker) processRaw(ctx context.Context, raw string) {
	var job model.ForcedSubmitJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return
	}

	if err := w.persist(ctx, &job); err != nil {
		w.log.Error().Err(err).Str("attempt_id", job.AttemptID).Msg("Persist failed — requeueing")
		w.rdb.RPush(ctx, config.WorkerKey.NotifyForcedSubmitQueue, raw)
		time.Sleep(NotifyRequeueDelay)
	}
}

func (w *NotifyWorker) persist(ctx context.Context, job *model.ForcedSubmitJob) error {
	attemptID, err := uuid.Parse(job.AttemptID)
	if err != nil {
		return fmt.Errorf("parse attempt id: %w", err)
	}
	examID, err := uuid.Parse(job.ExamID)
	if err != nil {
		return fmt.Errorf("parse exam id: %w", err)
	}

	n := &model.Notification{
		AttemptID: attemptID,
		ExamID:    examID,
		StudentID: job.StudentID,
		Kind:      model.NotificationForcedSubmit,
		Reason:    job.Reason,
		Message:   messageForReason(job.Reason),
	}
	return w.notificationRepo.Insert(ctx, n)
}

// drain empties the queue without blocking, used during shutdown.
func (w *NotifyWorker) drain(ctx context.Context) {
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.NotifyForcedSubmitQueue).Result()
		if err != nil {
			if err != redis.Nil {
				w.log.Error().Err(err).Msg("Drain LPop error")
			}
			return
		}

		var job model.ForcedSubmitJob
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			w.log.Error().Err(err).Msg("Invalid JSON payload during drain")
			continue
		}
		if err := w.persist(ctx, &job); err != nil {
			// Push it back for the next run rather than dropping it.
			w.log.Error().Err(err).Str("attempt_id", job.AttemptID).Msg("Drain persist failed — requeueing")
			w.rdb.RPush(ctx, config.WorkerKey.NotifyForcedSubmitQueue, raw)
			return
		}
	}
}

func messageForReason(reason model.SubmitReason) string {
	switch reason {
	case model.SubmitReasonTimeExpired:
		return "Attempt was auto-submitted because the time allowance expired."
	case model.SubmitReasonIntegrityViolation:
		return "Attempt was auto-submitted after repeated severe integrity violations."
	default:
		return "Attempt was submitted."
	}
}
