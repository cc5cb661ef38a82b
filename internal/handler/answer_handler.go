package handler

import (
	"errors"
	"net/http"

	"github.com/akademix/examly-backend/internal/middleware"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/response"
	"github.com/akademix/examly-backend/internal/service"
	"github.com/akademix/examly-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnswerHandler handles the per-question answer ledger endpoints.
type AnswerHandler struct {
	answerService *service.AnswerService
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

// SaveAnswer godoc
// PUT /api/v1/student/attempts/:id/answers/:question_id
// Commits one answer for one question of an ongoing attempt.
func (h *AnswerHandler) SaveAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rec, err := h.answerService.Save(c.Request.Context(), attemptID, claims.UserID, questionID, &req)
	if err != nil {
		failAttemptStateError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answer": rec})
}

// ListAnswers godoc
// GET /api/v1/student/attempts/:id/answers
// Lists the student's committed answers for an attempt, any state.
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	records, err := h.answerService.ListForStudent(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": records})
}

// ListAttemptAnswers godoc
// GET /api/v1/staff/attempts/:id/answers
// Staff review of an attempt's answer ledger.
func (h *AnswerHandler) ListAttemptAnswers(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	records, err := h.answerService.List(c.Request.Context(), attemptID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": records})
}
