package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/mocks"
)

var noteNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newNotificationService(t *testing.T) (*NotificationService, *mocks.MockNotificationRepository) {
	t.Helper()
	repo := mocks.NewMockNotificationRepository(gomock.NewController(t))
	return NewNotificationService(NotificationServiceOptions{
		Repo: repo,
		Now:  func() time.Time { return noteNow },
	}), repo
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, repo := newNotificationService(t)
	repo.EXPECT().MarkRead(gomock.Any(), core.NotificationRef{UserID: "u-1", ID: "n-1"}, noteNow).Return(true, nil)
	repo.EXPECT().MarkRead(gomock.Any(), core.NotificationRef{UserID: "u-1", ID: "n-2"}, noteNow).Return(false, nil)

	require.NoError(t, svc.MarkRead(context.Background(), "u-1", "n-1"))
	assert.ErrorIs(t, svc.MarkRead(context.Background(), "u-1", "n-2"), data.ErrNotificationNotFound)
}

func TestNotificationService_Delete_OtherUsers(t *testing.T) {
	svc, repo := newNotificationService(t)
	repo.EXPECT().Delete(gomock.Any(), core.NotificationRef{UserID: "u-1", ID: "n-9"}).Return(false, nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), "u-1", "n-9"), data.ErrNotificationNotFound)
}

func TestNotificationService_List(t *testing.T) {
	svc, repo := newNotificationService(t)
	repo.EXPECT().
		List(gomock.Any(), model.NotificationsListOptions{
			ListOptions: model.ListOptions{Limit: 20},
			UserID:      "u-1",
			UnreadOnly:  true,
		}).
		Return([]*model.Notification{{ID: "n-1"}}, nil)

	out, err := svc.List(context.Background(), model.NotificationsListOptions{UserID: "u-1", UnreadOnly: true})

	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestNotificationService_MarkAllReadAndCount(t *testing.T) {
	svc, repo := newNotificationService(t)
	repo.EXPECT().MarkAllRead(gomock.Any(), "u-1", noteNow).Return(int64(4), nil)
	repo.EXPECT().CountUnread(gomock.Any(), "u-1").Return(int64(0), nil)

	n, err := svc.MarkAllRead(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	unread, err := svc.UnreadCount(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestNotificationService_Broadcast(t *testing.T) {
	svc, repo := newNotificationService(t)
	role := domainauth.Role(" Candidate ")
	repo.EXPECT().
		Broadcast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.BroadcastRequest) (int64, error) {
			assert.Equal(t, domainauth.RoleCandidate, *req.Role)
			assert.Equal(t, "Maintenance tonight", req.Title)
			return 120, nil
		})

	res, err := svc.Broadcast(context.Background(), model.BroadcastRequest{
		Title:   " Maintenance tonight ",
		Message: "The site will be read-only from 1am to 2am IST.",
		Role:    &role,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(120), res.Recipients)
}

func TestNotificationService_Broadcast_Invalid(t *testing.T) {
	svc, _ := newNotificationService(t)
	role := domainauth.RoleGuest

	_, err := svc.Broadcast(context.Background(), model.BroadcastRequest{Title: "x", Message: "y", Role: &role})

	assert.Equal(t, "role", apperrors.GetField(err))
}
