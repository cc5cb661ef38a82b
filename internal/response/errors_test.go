package response

import "testing"

func TestGetMessageCoversAllCodes(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrSessionActive, ErrSessionInvalidated,
		ErrTokenRequired, ErrTokenInvalid, ErrTokenExpired,
		ErrForbidden, ErrRoleRequired, ErrStudentAccessOnly, ErrStaffAccessOnly,
		ErrValidation, ErrInvalidID, ErrInvalidPayload,
		ErrNotFound, ErrConflict,
		ErrAttemptOngoing, ErrAttemptTerminal, ErrExamNotAvailable,
		ErrExamNotPublished, ErrExamNotDraft, ErrNoQuestions, ErrQuestionNotInExam,
		ErrRateLimitExceeded, ErrInternal,
	}

	fallback := GetMessage(ErrCode("NO_SUCH_CODE"))
	for _, code := range codes {
		msg := GetMessage(code)
		if msg == "" {
			t.Errorf("GetMessage(%s) is empty", code)
		}
		if msg == fallback {
			t.Errorf("GetMessage(%s) fell through to the default message", code)
		}
	}
}
