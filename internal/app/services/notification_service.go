package services

import (
	"context"

	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/repositories"
)

// NotificationService handles the in-app notification inbox
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(notificationRepo *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListMine returns a page of the caller's notifications
func (s *NotificationService) ListMine(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, page, pageSize)
}

// MarkRead marks one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every unread notification of the caller as read and
// returns how many were updated
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
