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

// AttemptHandler handles the student-facing attempt lifecycle endpoints.
type AttemptHandler struct {
	attemptService  *service.AttemptService
	progressService *service.ProgressService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, progressService *service.ProgressService) *AttemptHandler {
	return &AttemptHandler{
		attemptService:  attemptService,
		progressService: progressService,
	}
}

// GetLobby godoc
// GET /api/v1/student/lobby
// Lists published exams overlaid with the student's attempt state.
func (h *AttemptHandler) GetLobby(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lobby, err := h.attemptService.Lobby(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": lobby})
}

// StartAttempt godoc
// POST /api/v1/student/attempts
// Starts a new attempt on a published exam. 409 if one is already ongoing.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), claims.UserID, req.ExamID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOngoingAttemptExists):
			response.Fail(c, http.StatusConflict, response.ErrAttemptOngoing)
		case errors.Is(err, service.ErrExamNotAvailable):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotAvailable)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": attempt})
}

// GetAttempt godoc
// GET /api/v1/student/attempts/:id
// Returns the student's own attempt regardless of state.
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
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

	attempt, err := h.attemptService.GetOwned(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// SubmitAttempt godoc
// POST /api/v1/student/attempts/:id/submit
// Submits the attempt. Idempotent: repeating the call returns the terminal
// attempt with transitioned=false instead of an error.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
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

	attempt, transitioned, err := h.attemptService.Submit(c.Request.Context(), attemptID, claims.UserID, model.SubmitReasonManual)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"attempt":      attempt,
		"transitioned": transitioned,
	})
}

// SaveHeartbeat godoc
// POST /api/v1/student/attempts/:id/heartbeat
// Stores the autosave snapshot and the client-reported elapsed time.
func (h *AttemptHandler) SaveHeartbeat(c *gin.Context) {
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

	var req model.SaveProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	snap, err := h.progressService.Save(c.Request.Context(), attemptID, claims.UserID, &req)
	if err != nil {
		failAttemptStateError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved_at": snap.SavedAt})
}

// ResumeAttempt godoc
// GET /api/v1/student/attempts/:id/resume
// Rebuilds the state a reconnecting client should restore.
func (h *AttemptHandler) ResumeAttempt(c *gin.Context) {
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

	state, err := h.progressService.Resume(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failAttemptStateError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"resume": state})
}

// failAttemptStateError maps the shared attempt-guard errors to responses.
func failAttemptStateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAttemptNotOngoing):
		response.Fail(c, http.StatusConflict, response.ErrAttemptTerminal)
	case errors.Is(err, service.ErrQuestionNotInExam):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrQuestionNotInExam)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
