package service

import (
	"context"
	"encoding/json"
	"fmt"

	"mentormatch/internal/model"
	"mentormatch/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	Create(ctx context.Context, notification *model.Notification) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// NotificationChannel is the redis pub/sub channel carrying a user's live
// notifications.
func NotificationChannel(userID string) string {
	return fmt.Sprintf("user_notifications:%s", userID)
}

func (s *notificationService) Create(ctx context.Context, notification *model.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// Push to connected websocket clients via Redis, when available.
	if s.redisClient != nil {
		if payload, err := json.Marshal(notification); err == nil {
			s.redisClient.Publish(ctx, NotificationChannel(notification.UserID.String()), payload)
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.FindByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
