package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Repo   core.NotificationRepository // Required
	Now    func() time.Time
	Logger *slog.Logger
}

// NotificationService serves a user's in-app notifications and admin broadcasts.
type NotificationService struct {
	repo   core.NotificationRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	if opts.Repo == nil {
		panic("NotificationRepository is required")
	}
	return &NotificationService{
		repo:   opts.Repo,
		now:    clockOrDefault(opts.Now),
		logger: componentLogger(opts.Logger, "notification_service"),
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(
	ctx context.Context,
	opts model.NotificationsListOptions,
) ([]*model.Notification, error) {
	opts.ListOptions = normalizeListOptions(opts.ListOptions)
	out, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one notification read. Marking twice keeps the first read time.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := s.repo.MarkRead(ctx, core.NotificationRef{UserID: userID, ID: id}, s.now())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return data.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification read and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.repo.Delete(ctx, core.NotificationRef{UserID: userID, ID: id})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if !ok {
		return data.ErrNotificationNotFound
	}
	return nil
}

// Broadcast sends a system notification to every active user, or to every
// active user of one role.
func (s *NotificationService) Broadcast(ctx context.Context, req model.BroadcastRequest) (*model.BroadcastResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n, err := s.repo.Broadcast(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("broadcast: %w", err)
	}
	role := "all"
	if req.Role != nil {
		role = string(*req.Role)
	}
	s.logger.InfoContext(ctx, "notification broadcast", "role", role, "recipients", n)
	return &model.BroadcastResult{Recipients: n}, nil
}
