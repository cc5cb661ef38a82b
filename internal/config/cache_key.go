package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// StudentActiveAttemptKey returns the cache key holding the student's
// currently ongoing attempt ID, if any.
func (r *CacheKeyStruct) StudentActiveAttemptKey(studentID int) string {
	return fmt.Sprintf("student:%d:active_attempt", studentID)
}

// ExamDurationKey returns the cache key for an exam's duration allowance.
func (r *CacheKeyStruct) ExamDurationKey(examID string) string {
	return fmt.Sprintf("exam:%s:duration", examID)
}

// ExamQuestionSetKey returns the cache key for the set of valid question IDs
// belonging to an exam. Used to validate answer saves without hitting Postgres.
func (r *CacheKeyStruct) ExamQuestionSetKey(examID string) string {
	return fmt.Sprintf("exam:%s:question_set", examID)
}

// ExamIntegrityChannel returns the Redis PubSub channel carrying live
// integrity events for proctors watching an exam.
func (r *CacheKeyStruct) ExamIntegrityChannel(examID string) string {
	return fmt.Sprintf("exam:%s:integrity", examID)
}

var CacheKey = NewCacheKeyStruct()
