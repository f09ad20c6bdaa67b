package service

import (
	"context"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
)

type NotificationService interface {
	GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	out, err := s.notifications.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load notifications", err)
	}
	return out, nil
}

// MarkAsRead does not tell a missing notification apart from one owned by
// someone else.
func (s *notificationService) MarkAsRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	n, err := s.notifications.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load notification", err)
	}
	if n == nil {
		return nil, &apperrors.AppError{Kind: apperrors.KindNotFound, Message: "Notification not found or unauthorized"}
	}
	if n.Read {
		return n, nil
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return nil, apperrors.Unexpected("Failed to update notification", err)
	}
	n.Read = true
	return n, nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Unexpected("Failed to update notifications", err)
	}
	return n, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Unexpected("Failed to count notifications", err)
	}
	return n, nil
}
