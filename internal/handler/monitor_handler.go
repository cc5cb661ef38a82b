package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/akademix/examly-backend/internal/response"
	"github.com/akademix/examly-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MonitorHandler handles the proctor snapshot and notification endpoints.
type MonitorHandler struct {
	examService     *service.ExamService
	monitorService  *service.MonitorService
	notificationSvc *service.NotificationService
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(
	examService *service.ExamService,
	monitorService *service.MonitorService,
	notificationSvc *service.NotificationService,
) *MonitorHandler {
	return &MonitorHandler{
		examService:     examService,
		monitorService:  monitorService,
		notificationSvc: notificationSvc,
	}
}

// GetExamSnapshot godoc
// GET /api/v1/staff/exams/:id/monitor
// Returns the per-student progress snapshot for an exam.
func (h *MonitorHandler) GetExamSnapshot(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.examService.Get(c.Request.Context(), examID); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	snapshot, err := h.monitorService.GetExamSnapshot(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"ongoing_student_ids": snapshot.OngoingStudentIDs,
		"answered_counts":     snapshot.AnsweredCounts,
		"severe_counts":       snapshot.SevereCounts,
		"total_severe":        snapshot.TotalSevere,
	})
}

// ListNotifications godoc
// GET /api/v1/staff/notifications
// Lists recent operator notifications, newest first.
func (h *MonitorHandler) ListNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	items, total, err := h.notificationSvc.ListRecent(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"notifications": items}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	})
}
