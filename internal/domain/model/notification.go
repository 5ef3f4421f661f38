package model

import (
	"strings"
	"time"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxNotificationTitleLen   = 200
	maxNotificationMessageLen = 2000
)

// NotificationType identifies what produced a notification.
type NotificationType string

const (
	NotificationApplicationReceived NotificationType = "application_received"
	NotificationApplicationStatus   NotificationType = "application_status"
	NotificationVerificationStatus  NotificationType = "verification_status"
	NotificationJobAlert            NotificationType = "job_alert"
	NotificationSystem              NotificationType = "system"
)

// Valid reports whether the type is supported.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationApplicationReceived, NotificationApplicationStatus, NotificationVerificationStatus,
		NotificationJobAlert, NotificationSystem:
		return true
	default:
		return false
	}
}

// Notification is an in-app message for one user.
type Notification struct {
	ID        string           `json:"id"                db:"id"`
	UserID    string           `json:"user_id"           db:"user_id"`
	Type      NotificationType `json:"type"              db:"type"`
	Title     string           `json:"title"             db:"title"`
	Message   string           `json:"message"           db:"message"`
	Link      *string          `json:"link,omitempty"    db:"link"`
	IsRead    bool             `json:"is_read"           db:"is_read"`
	CreatedAt time.Time        `json:"created_at"        db:"created_at"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
}

// CreateNotificationRequest is the repository insert for a notification.
type CreateNotificationRequest struct {
	UserID  string
	Type    NotificationType
	Title   string
	Message string
	Link    *string
}

// Validate checks the type and required text.
func (r *CreateNotificationRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return apperrors.ValidationField("user_id", "user_id is required and cannot be empty")
	}
	if !r.Type.Valid() {
		return apperrors.ValidationField("type", "type is invalid")
	}
	if err := requireText("title", &r.Title, maxNotificationTitleLen); err != nil {
		return err
	}
	if err := requireText("message", &r.Message, maxNotificationMessageLen); err != nil {
		return err
	}
	return optionalText("link", r.Link, maxURLLen)
}

// BroadcastRequest is the admin system broadcast.
type BroadcastRequest struct {
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Link    *string          `json:"link,omitempty"`
	Role    *domainauth.Role `json:"role,omitempty"`
}

// Validate checks the text and optional role filter.
func (r *BroadcastRequest) Validate() error {
	if err := requireText("title", &r.Title, maxNotificationTitleLen); err != nil {
		return err
	}
	if err := requireText("message", &r.Message, maxNotificationMessageLen); err != nil {
		return err
	}
	if err := optionalText("link", r.Link, maxURLLen); err != nil {
		return err
	}
	if r.Role != nil {
		role, err := domainauth.ParseRole(string(*r.Role))
		if err != nil {
			return apperrors.ValidationField("role", err.Error())
		}
		r.Role = &role
	}
	return nil
}

// BroadcastResult reports how many users received a broadcast.
type BroadcastResult struct {
	Recipients int64 `json:"recipients"`
}

// NotificationsListOptions filters a user's notifications.
type NotificationsListOptions struct {
	ListOptions
	UserID     string
	UnreadOnly bool
}
