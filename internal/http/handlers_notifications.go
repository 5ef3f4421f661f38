package httpx

import (
	"context"
	"net/http"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// NotificationsService defines the in-app notification operations.
type NotificationsService interface {
	List(ctx context.Context, opts model.NotificationsListOptions) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
	Broadcast(ctx context.Context, req model.BroadcastRequest) (*model.BroadcastResult, error)
}

// NotificationHandlers provides HTTP handlers for the caller's notifications
// and the admin broadcast.
type NotificationHandlers struct {
	Svc NotificationsService
}

// List returns the caller's notifications, newest first.
// GET /api/notifications?unread=&limit=&offset=.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.NotificationsListOptions{
		ListOptions: listOptions(r),
		UserID:      sessionOf(r).UserID,
	}
	if unread := queryBool(r.URL.Query(), "unread"); unread != nil {
		opts.UnreadOnly = *unread
	}
	items, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "notifications", items, opts.Limit, opts.Offset)
}

// UnreadCount returns how many of the caller's notifications are unread.
// GET /api/notifications/unread-count.
func (h *NotificationHandlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.UnreadCount(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "unread_count", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}

// MarkRead marks one notification read.
// POST /api/notifications/{id}/read.
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.MarkRead(r.Context(), sessionOf(r).UserID, r.PathValue("id")); err != nil {
		WriteAppError(w, "mark_read", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// MarkAllRead marks every unread notification read.
// POST /api/notifications/read-all.
func (h *NotificationHandlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.MarkAllRead(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "mark_all_read", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// Delete removes one of the caller's notifications.
// DELETE /api/notifications/{id}.
func (h *NotificationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), sessionOf(r).UserID, r.PathValue("id")); err != nil {
		WriteAppError(w, "delete", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Broadcast sends a system notification to all active users, optionally of one role.
// POST /api/admin/notifications.
func (h *NotificationHandlers) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req model.BroadcastRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.Broadcast(r.Context(), req)
	if err != nil {
		WriteAppError(w, "broadcast", err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}
