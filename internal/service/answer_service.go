package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/metrics"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrQuestionNotInExam means the question does not belong to the attempt's exam.
var ErrQuestionNotInExam = errors.New("question does not belong to this exam")

// AnswerService handles the durable per-question answer ledger.
type AnswerService struct {
	attemptSvc   *AttemptService
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	attemptSvc *AttemptService,
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AnswerService {
	return &AnswerService{
		attemptSvc:   attemptSvc,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "answer_service").Logger(),
	}
}

// Save commits one answer for one question of an ongoing attempt. The
// question must belong to the attempt's exam; membership is checked against
// the Redis question-set cache with a database fallback.
func (s *AnswerService) Save(ctx context.Context, attemptID uuid.UUID, studentID int, questionID uuid.UUID, req *model.SaveAnswerRequest) (*model.AnswerRecord, error) {
	attempt, err := s.attemptSvc.RequireOngoing(ctx, attemptID, studentID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotOngoing) {
			metrics.StaleWrites.WithLabelValues("answer").Inc()
		}
		return nil, err
	}

	ok, err := s.questionBelongsToExam(ctx, attempt.ExamID, questionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrQuestionNotInExam
	}

	rec := &model.AnswerRecord{
		AttemptID:        attemptID,
		QuestionID:       questionID,
		AnswerText:       req.AnswerText,
		SelectedOption:   req.SelectedOption,
		Flagged:          req.Flagged,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if err := s.answerRepo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}

	metrics.AnswersSaved.Inc()
	return rec, nil
}

// ListForStudent returns the ledger for an attempt the student owns.
// Review stays legal after the attempt is terminal.
func (s *AnswerService) ListForStudent(ctx context.Context, attemptID uuid.UUID, studentID int) ([]model.AnswerRecord, error) {
	if _, err := s.attemptSvc.GetOwned(ctx, attemptID, studentID); err != nil {
		return nil, err
	}
	return s.answerRepo.ListByAttempt(ctx, attemptID)
}

// List returns the ledger for any attempt, for staff review.
func (s *AnswerService) List(ctx context.Context, attemptID uuid.UUID) ([]model.AnswerRecord, error) {
	if _, err := s.attemptSvc.Get(ctx, attemptID); err != nil {
		return nil, err
	}
	return s.answerRepo.ListByAttempt(ctx, attemptID)
}

// questionBelongsToExam prefers the warmed Redis set and falls back to the
// database on a cache miss or Redis error. A false from the cache still goes
// to the database: the cache may predate a question-set edit.
func (s *AnswerService) questionBelongsToExam(ctx context.Context, examID, questionID uuid.UUID) (bool, error) {
	key := config.CacheKey.ExamQuestionSetKey(examID.String())
	member, err := s.rdb.SIsMember(ctx, key, questionID.String()).Result()
	if err == nil && member {
		return true, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("Question set cache unavailable")
	}

	ok, dbErr := s.questionRepo.BelongsToExam(ctx, examID, questionID)
	if dbErr != nil {
		return false, fmt.Errorf("check question membership: %w", dbErr)
	}
	return ok, nil
}
