package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medexjob/medexjob-api/internal/core"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/testutil"
)

func TestNotificationRepo_ReadFlow(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewNotificationRepo(db)
		owner := testutil.InsertUser(t, db, "candidate")
		other := testutil.InsertUser(t, db, "candidate")

		n, err := repo.Create(ctx, model.CreateNotificationRequest{
			UserID:  owner,
			Type:    model.NotificationApplicationStatus,
			Title:   "Shortlisted",
			Message: "You were shortlisted",
		})
		require.NoError(t, err)
		assert.False(t, n.IsRead)

		created, err := repo.CreateMany(ctx, []model.CreateNotificationRequest{
			{UserID: owner, Type: model.NotificationJobAlert, Title: "New job", Message: "ICU nurse in Pune"},
			{UserID: owner, Type: "bogus", Title: "skipped", Message: "skipped"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created)

		count, err := repo.CountUnread(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		ok, err := repo.MarkRead(ctx, core.NotificationRef{UserID: other, ID: n.ID}, time.Now())
		require.NoError(t, err)
		assert.False(t, ok, "another user's notification cannot be marked")

		ok, err = repo.MarkRead(ctx, core.NotificationRef{UserID: owner, ID: n.ID}, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		unread, err := repo.List(ctx, model.NotificationsListOptions{UserID: owner, UnreadOnly: true})
		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.Equal(t, model.NotificationJobAlert, unread[0].Type)

		marked, err := repo.MarkAllRead(ctx, owner, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), marked)

		pruned, err := repo.DeleteReadBefore(ctx, time.Now().Add(time.Minute), 100)
		require.NoError(t, err)
		assert.Equal(t, int64(2), pruned)
	})
}

func TestNotificationRepo_BroadcastByRole(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewNotificationRepo(db)
		testutil.InsertUser(t, db, "candidate")
		testutil.InsertUser(t, db, "candidate")
		employer := testutil.InsertUser(t, db, "employer")

		role := domainauth.RoleEmployer
		sent, err := repo.Broadcast(ctx, model.BroadcastRequest{Title: "Maintenance", Message: "Tonight", Role: &role})
		require.NoError(t, err)
		assert.Equal(t, int64(1), sent)

		list, err := repo.List(ctx, model.NotificationsListOptions{UserID: employer})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, model.NotificationSystem, list[0].Type)

		sent, err = repo.Broadcast(ctx, model.BroadcastRequest{Title: "Hello", Message: "All"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), sent)
	})
}
