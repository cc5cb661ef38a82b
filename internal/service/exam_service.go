package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrExamNotDraft     = errors.New("exam is not in draft state")
	ErrExamNotPublished = errors.New("exam is not published")
	ErrNoQuestions      = errors.New("exam has no questions")
)

// ExamService manages exam definitions and their question sets, and keeps the
// Redis caches an ongoing attempt depends on warm.
type ExamService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "exam_service").Logger(),
	}
}

// Get retrieves an exam by ID.
func (s *ExamService) Get(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

// List retrieves exams newest first with pagination.
func (s *ExamService) List(ctx context.Context, limit, offset int) ([]model.Exam, int, error) {
	return s.examRepo.ListPaginated(ctx, limit, offset)
}

// Create creates a new draft exam owned by the given staff user.
func (s *ExamService) Create(ctx context.Context, authorID int, req *model.CreateExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		Title:           req.Title,
		AuthorID:        authorID,
		DurationMinutes: req.DurationMinutes,
		ScheduledStart:  req.ScheduledStart,
		ScheduledEnd:    req.ScheduledEnd,
		Status:          model.ExamStatusDraft,
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	s.log.Info().Str("exam_id", exam.ID.String()).Str("title", exam.Title).Msg("Exam created")
	return exam, nil
}

// Update modifies a draft exam. Published exams are frozen: running attempts
// hold a copy of the duration allowance and must not drift from it.
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.DurationMinutes > 0 {
		exam.DurationMinutes = req.DurationMinutes
	}
	if req.ScheduledStart != nil {
		exam.ScheduledStart = req.ScheduledStart
	}
	if req.ScheduledEnd != nil {
		exam.ScheduledEnd = req.ScheduledEnd
	}

	if err := s.examRepo.Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return exam, nil
}

// Delete removes a draft exam.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if exam.Status != model.ExamStatusDraft {
		return ErrExamNotDraft
	}
	return s.examRepo.Delete(ctx, id)
}

// Publish makes an exam available for attempts and warms its caches.
// Requires at least one question.
func (s *ExamService) Publish(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	ids, err := s.questionRepo.ListIDsByExam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list question ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNoQuestions
	}

	if err := s.examRepo.UpdateStatus(ctx, id, model.ExamStatusPublished); err != nil {
		return nil, fmt.Errorf("publish exam: %w", err)
	}
	exam.Status = model.ExamStatusPublished

	if err := s.WarmExamCache(ctx, exam, ids); err != nil {
		// Attempt-paths have a database fallback; warn and continue.
		s.log.Warn().Err(err).Str("exam_id", id.String()).Msg("Failed to warm exam cache")
	}

	s.log.Info().Str("exam_id", id.String()).Int("questions", len(ids)).Msg("Exam published")
	return exam, nil
}

// Archive retires a published exam from the lobby.
func (s *ExamService) Archive(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, ErrExamNotPublished
	}
	if err := s.examRepo.UpdateStatus(ctx, id, model.ExamStatusArchived); err != nil {
		return nil, fmt.Errorf("archive exam: %w", err)
	}
	exam.Status = model.ExamStatusArchived
	return exam, nil
}

// ListQuestions retrieves an exam's questions in order.
func (s *ExamService) ListQuestions(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	if _, err := s.Get(ctx, examID); err != nil {
		return nil, err
	}
	return s.questionRepo.ListByExam(ctx, examID)
}

// ReplaceQuestions swaps the full question set of a draft exam.
func (s *ExamService) ReplaceQuestions(ctx context.Context, examID uuid.UUID, req *model.ReplaceQuestionsRequest) ([]model.Question, error) {
	exam, err := s.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		questions = append(questions, model.Question{
			QuestionText: q.QuestionText,
			QuestionType: model.QuestionType(q.QuestionType),
			Options:      q.Options,
			OrderNum:     orderOrIndex(q.OrderNum, i),
		})
	}

	if err := s.questionRepo.ReplaceForExam(ctx, examID, questions); err != nil {
		return nil, fmt.Errorf("replace questions: %w", err)
	}
	return questions, nil
}

// WarmExamCache writes the duration and question-set keys for one exam.
func (s *ExamService) WarmExamCache(ctx context.Context, exam *model.Exam, questionIDs []uuid.UUID) error {
	members := make([]interface{}, len(questionIDs))
	for i, id := range questionIDs {
		members[i] = id.String()
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.ExamDurationKey(exam.ID.String()), strconv.Itoa(exam.DurationMinutes), 0)
	setKey := config.CacheKey.ExamQuestionSetKey(exam.ID.String())
	pipe.Del(ctx, setKey)
	if len(members) > 0 {
		pipe.SAdd(ctx, setKey, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// PrewarmAllCaches rebuilds the caches for every published exam. Called on
// startup so a Redis flush or restart does not leave attempt-paths on the
// slow database fallback.
func (s *ExamService) PrewarmAllCaches(ctx context.Context) error {
	exams, err := s.examRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published exams: %w", err)
	}
	for i := range exams {
		ids, err := s.questionRepo.ListIDsByExam(ctx, exams[i].ID)
		if err != nil {
			return fmt.Errorf("list question ids: %w", err)
		}
		if err := s.WarmExamCache(ctx, &exams[i], ids); err != nil {
			return fmt.Errorf("warm exam %s: %w", exams[i].ID, err)
		}
	}
	s.log.Info().Int("exams", len(exams)).Msg("Exam caches warmed")
	return nil
}

func orderOrIndex(order, index int) int {
	if order > 0 {
		return order
	}
	return index + 1
}
