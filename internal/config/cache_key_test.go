package config

import "testing"

func TestCacheKeys(t *testing.T) {
	if got := CacheKey.StudentSessionKey(12); got != "login:12" {
		t.Errorf("StudentSessionKey = %q", got)
	}
	if got := CacheKey.StudentActiveAttemptKey(12); got != "student:12:active_attempt" {
		t.Errorf("StudentActiveAttemptKey = %q", got)
	}
	if got := CacheKey.ExamDurationKey("abc"); got != "exam:abc:duration" {
		t.Errorf("ExamDurationKey = %q", got)
	}
	if got := CacheKey.ExamQuestionSetKey("abc"); got != "exam:abc:question_set" {
		t.Errorf("ExamQuestionSetKey = %q", got)
	}
	if got := CacheKey.ExamIntegrityChannel("abc"); got != "exam:abc:integrity" {
		t.Errorf("ExamIntegrityChannel = %q", got)
	}
}

func TestWorkerKeys(t *testing.T) {
	if WorkerKey.NotifyForcedSubmitQueue == "" {
		t.Error("NotifyForcedSubmitQueue must be non-empty")
	}
}
