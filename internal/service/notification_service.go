package service

import (
	"context"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
)

// NotificationService exposes the operator notification feed.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListRecent retrieves the newest notifications, paginated.
func (s *NotificationService) ListRecent(ctx context.Context, limit, offset int) ([]model.Notification, int, error) {
	return s.notificationRepo.ListRecent(ctx, limit, offset)
}
