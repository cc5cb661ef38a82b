package service

import (
	"context"
	"sync"

	"github.com/akademix/examly-backend/internal/repository"
	"github.com/google/uuid"
)

// MonitorService builds the live proctor view of an exam.
type MonitorService struct {
	monitorRepo *repository.MonitorRepository
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(monitorRepo *repository.MonitorRepository) *MonitorService {
	return &MonitorService{monitorRepo: monitorRepo}
}

// ExamSnapshot holds per-student progress for every ongoing attempt in an exam.
type ExamSnapshot struct {
	OngoingStudentIDs []int         // students with an ongoing attempt
	AnsweredCounts    map[int]int64 // student_id → committed answer count
	SevereCounts      map[int]int64 // student_id → HIGH/CRITICAL event count
	TotalSevere       int64         // total severe events across the exam
}

// GetExamSnapshot returns the proctor snapshot. The three independent fetches
// run in parallel to minimize latency.
func (s *MonitorService) GetExamSnapshot(ctx context.Context, examID uuid.UUID) (*ExamSnapshot, error) {
	snapshot := &ExamSnapshot{
		AnsweredCounts: make(map[int]int64),
		SevereCounts:   make(map[int]int64),
	}

	var (
		ongoingIDs     []int
		answeredCounts map[int]int64
		severeCounts   map[int]int64
		ongoingErr     error
		answeredErr    error
		severeErr      error
		wg             sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		ongoingIDs, ongoingErr = s.monitorRepo.GetOngoingStudentIDs(ctx, examID)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		answeredCounts, answeredErr = s.monitorRepo.GetAnsweredCounts(ctx, examID)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		severeCounts, severeErr = s.monitorRepo.GetSevereEventCounts(ctx, examID)
	}()

	wg.Wait()

	// The roster and answered counts are critical; severe counts are best-effort.
	if ongoingErr != nil {
		return nil, ongoingErr
	}
	if answeredErr != nil {
		return nil, answeredErr
	}

	snapshot.OngoingStudentIDs = ongoingIDs
	if answeredCounts != nil {
		snapshot.AnsweredCounts = answeredCounts
	}
	if severeErr == nil && severeCounts != nil {
		snapshot.SevereCounts = severeCounts
		for _, count := range severeCounts {
			snapshot.TotalSevere += count
		}
	}

	return snapshot, nil
}
