package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsStarted counts attempts created.
	AttemptsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examly_attempts_started_total",
			Help: "Total number of exam attempts started",
		},
	)

	// AttemptsFinished counts terminal transitions by submit reason.
	AttemptsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examly_attempts_finished_total",
			Help: "Total number of exam attempts finished, by reason",
		},
		[]string{"reason"},
	)

	// HeartbeatsSaved counts accepted autosave heartbeats.
	HeartbeatsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examly_progress_heartbeats_total",
			Help: "Total number of accepted autosave heartbeats",
		},
	)

	// AnswersSaved counts ledger answer upserts.
	AnswersSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examly_answers_saved_total",
			Help: "Total number of answer ledger saves",
		},
	)

	// IntegrityEvents counts recorded integrity events by severity.
	IntegrityEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examly_integrity_events_total",
			Help: "Total number of integrity events recorded, by severity",
		},
		[]string{"severity"},
	)

	// StaleWrites counts writes rejected because the attempt was already terminal.
	StaleWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examly_stale_writes_total",
			Help: "Total number of writes rejected against terminal attempts, by path",
		},
		[]string{"path"},
	)
)
