package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data/database"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// NotificationRepo provides database operations for in-app notifications.
type NotificationRepo struct {
	DB *sql.DB
}

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db}
}

var (
	notificationColumnList = []string{
		"id", "user_id", "type", "title", "message", "link", "is_read", "created_at", "read_at",
	}
	notificationColumns = strings.Join(notificationColumnList, ", ")
)

// Create inserts a notification.
func (r *NotificationRepo) Create(
	ctx context.Context,
	req model.CreateNotificationRequest,
) (*model.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n, err := queryOne[model.Notification](ctx, r.DB, `
		INSERT INTO notifications (user_id, type, title, message, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		req.UserID, string(req.Type), req.Title, req.Message, nullIfBlank(req.Link))
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidID(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// CreateMany inserts notifications in one statement. Invalid entries are skipped.
func (r *NotificationRepo) CreateMany(ctx context.Context, reqs []model.CreateNotificationRequest) (int64, error) {
	users := make([]string, 0, len(reqs))
	types := make([]string, 0, len(reqs))
	titles := make([]string, 0, len(reqs))
	messages := make([]string, 0, len(reqs))
	links := make([]*string, 0, len(reqs))
	for i := range reqs {
		req := reqs[i]
		if err := req.Validate(); err != nil {
			continue
		}
		users = append(users, req.UserID)
		types = append(types, string(req.Type))
		titles = append(titles, req.Title)
		messages = append(messages, req.Message)
		links = append(links, req.Link)
	}
	if len(users) == 0 {
		return 0, nil
	}
	n, err := execAffected(ctx, r.DB, `
		INSERT INTO notifications (user_id, type, title, message, link)
		SELECT u, t, ti, m, l
		FROM unnest($1::uuid[], $2::text[], $3::text[], $4::text[], $5::text[]) AS x(u, t, ti, m, l)`,
		users, types, titles, messages, links)
	if err != nil {
		return 0, fmt.Errorf("failed to create notifications: %w", err)
	}
	return n, nil
}

// Broadcast sends a system notification to every active user, optionally of one role.
func (r *NotificationRepo) Broadcast(ctx context.Context, req model.BroadcastRequest) (int64, error) {
	var role any
	if req.Role != nil {
		role = string(*req.Role)
	}
	n, err := execAffected(ctx, r.DB, `
		INSERT INTO notifications (user_id, type, title, message, link)
		SELECT id, 'system', $1, $2, $3
		FROM users
		WHERE is_active AND ($4::text IS NULL OR role = $4::text)`,
		req.Title, req.Message, nullIfBlank(req.Link), role)
	if err != nil {
		return 0, fmt.Errorf("failed to broadcast notification: %w", err)
	}
	return n, nil
}

// List returns a user's notifications, newest first.
func (r *NotificationRepo) List(
	ctx context.Context,
	opts model.NotificationsListOptions,
) ([]*model.Notification, error) {
	limit, offset := pageBounds(opts.Limit, opts.Offset)
	queryOpts := []database.ListQueryOption{
		database.WithColumns(notificationColumnList...),
		database.WithCondition(database.WhereCond("user_id", database.Equal, opts.UserID)),
		database.WithOrderBy("created_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.UnreadOnly {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("is_read", database.Equal, false)))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("notifications", queryOpts...))
	out, err := queryAll[model.Notification](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

// CountUnread counts a user's unread notifications.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := queryScalar[int64](ctx, r.DB,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the user's notifications read. It reports false when
// the notification does not exist or belongs to someone else.
func (r *NotificationRepo) MarkRead(ctx context.Context, ref core.NotificationRef, at time.Time) (bool, error) {
	n, err := execAffected(ctx, r.DB, `
		UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND user_id = $2`, ref.ID, ref.UserID, at.UTC())
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return n > 0, nil
}

// MarkAllRead marks every unread notification of the user read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	n, err := execAffected(ctx, r.DB, `
		UPDATE notifications SET is_read = TRUE, read_at = $2
		WHERE user_id = $1 AND NOT is_read`, userID, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

// Delete removes one of the user's notifications.
func (r *NotificationRepo) Delete(ctx context.Context, ref core.NotificationRef) (bool, error) {
	n, err := execAffected(ctx, r.DB, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, ref.ID, ref.UserID)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete notification: %w", err)
	}
	return n > 0, nil
}

// DeleteReadBefore prunes read notifications created before the cutoff, in batches.
func (r *NotificationRepo) DeleteReadBefore(ctx context.Context, before time.Time, batchSize int) (int64, error) {
	n, err := execAffected(ctx, r.DB, `
		DELETE FROM notifications
		WHERE id IN (
			SELECT id FROM notifications
			WHERE is_read AND created_at < $1
			LIMIT $2
		)`, before.UTC(), batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}
	return n, nil
}
