package worker

import (
	"context"
	"time"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/service"
	"github.com/rs/zerolog"
)

// ExpiryWorker periodically scans for ongoing attempts whose time allowance
// ran out and submits them with reason time_expired. The submit path is
// idempotent, so a manual submit racing the scan is harmless.
type ExpiryWorker struct {
	attemptSvc *service.AttemptService
	interval   time.Duration
	grace      time.Duration
	log        zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(attemptSvc *service.AttemptService, interval, grace time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		attemptSvc: attemptSvc,
		interval:   interval,
		grace:      grace,
		log:        log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start runs the scan loop until ctx is canceled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Dur("grace", w.grace).Msg("ExpiryWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ExpiryWorker stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *ExpiryWorker) scan(ctx context.Context) {
	ids, err := w.attemptSvc.ListExpiredIDs(ctx, w.grace)
	if err != nil {
		w.log.Error().Err(err).Msg("Expiry scan failed")
		return
	}
	if len(ids) == 0 {
		return
	}

	submitted := 0
	for _, id := range ids {
		_, did, err := w.attemptSvc.Submit(ctx, id, 0, model.SubmitReasonTimeExpired)
		if err != nil {
			w.log.Error().Err(err).Str("attempt_id", id.String()).Msg("Expiry submit failed")
			continue
		}
		if did {
			submitted++
		}
	}

	if submitted > 0 {
		w.log.Info().Int("expired", len(ids)).Int("submitted", submitted).Msg("Expired attempts auto-submitted")
	}
}
