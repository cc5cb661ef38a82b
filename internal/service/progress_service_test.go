package service

import (
	"sort"
	"testing"
	"time"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/google/uuid"
)

func strptr(s string) *string { return &s }

func TestMergeResumeEmpty(t *testing.T) {
	attempt := &model.Attempt{ID: uuid.New(), TimeSpentSeconds: 42}

	state := MergeResume(attempt, nil, nil)

	if state.AttemptID != attempt.ID {
		t.Errorf("AttemptID = %s, want %s", state.AttemptID, attempt.ID)
	}
	if state.TimeSpentSeconds != 42 {
		t.Errorf("TimeSpentSeconds = %d, want 42", state.TimeSpentSeconds)
	}
	if state.CurrentQuestionIndex != 0 {
		t.Errorf("CurrentQuestionIndex = %d, want 0", state.CurrentQuestionIndex)
	}
	if len(state.Answers) != 0 || len(state.Flagged) != 0 {
		t.Errorf("expected empty answers and flags, got %v / %v", state.Answers, state.Flagged)
	}
	if state.SavedAt != nil {
		t.Errorf("SavedAt = %v, want nil", state.SavedAt)
	}
}

func TestMergeResumeSnapshotOnly(t *testing.T) {
	attempt := &model.Attempt{ID: uuid.New(), TimeSpentSeconds: 100}
	q1 := uuid.New().String()
	q2 := uuid.New().String()
	savedAt := time.Now()

	snap := &model.ProgressSnapshot{
		AttemptID:            attempt.ID,
		CurrentQuestionIndex: 3,
		Answers:              map[string]string{q1: "A", q2: "draft essay text"},
		Flagged:              []string{q2},
		SavedAt:              savedAt,
	}

	state := MergeResume(attempt, snap, nil)

	if state.CurrentQuestionIndex != 3 {
		t.Errorf("CurrentQuestionIndex = %d, want 3", state.CurrentQuestionIndex)
	}
	if state.Answers[q1] != "A" || state.Answers[q2] != "draft essay text" {
		t.Errorf("answers not carried over: %v", state.Answers)
	}
	if len(state.Flagged) != 1 || state.Flagged[0] != q2 {
		t.Errorf("Flagged = %v, want [%s]", state.Flagged, q2)
	}
	if state.SavedAt == nil || !state.SavedAt.Equal(savedAt) {
		t.Errorf("SavedAt = %v, want %v", state.SavedAt, savedAt)
	}
}

func TestMergeResumeLedgerWins(t *testing.T) {
	attempt := &model.Attempt{ID: uuid.New()}
	qChoice := uuid.New()
	qEssay := uuid.New()
	qSnapOnly := uuid.New().String()

	snap := &model.ProgressSnapshot{
		AttemptID: attempt.ID,
		Answers: map[string]string{
			qChoice.String(): "B",
			qSnapOnly:        "C",
		},
		// The snapshot flagged qChoice, but the ledger later unflagged it.
		Flagged: []string{qChoice.String()},
	}

	records := []model.AnswerRecord{
		{
			AttemptID:      attempt.ID,
			QuestionID:     qChoice,
			SelectedOption: strptr("D"),
			Flagged:        false,
		},
		{
			AttemptID:  attempt.ID,
			QuestionID: qEssay,
			AnswerText: strptr("committed essay"),
			Flagged:    true,
		},
	}

	state := MergeResume(attempt, snap, records)

	if state.Answers[qChoice.String()] != "D" {
		t.Errorf("ledger should win for %s: got %q", qChoice, state.Answers[qChoice.String()])
	}
	if state.Answers[qEssay.String()] != "committed essay" {
		t.Errorf("ledger answer missing: %v", state.Answers)
	}
	if state.Answers[qSnapOnly] != "C" {
		t.Errorf("snapshot-only answer should survive: %v", state.Answers)
	}

	sort.Strings(state.Flagged)
	want := []string{qEssay.String()}
	if len(state.Flagged) != 1 || state.Flagged[0] != want[0] {
		t.Errorf("Flagged = %v, want %v", state.Flagged, want)
	}
}

func TestMergeResumeSelectedOptionPreferredOverText(t *testing.T) {
	attempt := &model.Attempt{ID: uuid.New()}
	q := uuid.New()

	records := []model.AnswerRecord{
		{
			AttemptID:      attempt.ID,
			QuestionID:     q,
			SelectedOption: strptr("A"),
			AnswerText:     strptr("stale text"),
		},
	}

	state := MergeResume(attempt, nil, records)

	if state.Answers[q.String()] != "A" {
		t.Errorf("Answers[%s] = %q, want %q", q, state.Answers[q.String()], "A")
	}
}
