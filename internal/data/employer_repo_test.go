package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/testutil"
)

func TestEmployerRepo_VerificationLastCallWins(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEmployerRepo(db)
		emp := testutil.InsertEmployer(t, db, "pending")
		admin := testutil.InsertUser(t, db, "admin")
		now := time.Now().UTC()

		rejected, err := repo.SetVerification(ctx, model.SetVerificationRequest{
			EmployerID: emp.EmployerID,
			Status:     model.VerificationRejected,
			ReviewerID: &admin,
			Reason:     testutil.StringPtr("PAN unreadable"),
			ReviewedAt: now,
		})
		require.NoError(t, err)
		assert.Equal(t, model.VerificationRejected, rejected.VerificationStatus)
		require.NotNil(t, rejected.RejectionReason)
		assert.Equal(t, "PAN unreadable", *rejected.RejectionReason)

		resubmitted, err := repo.RecordKYC(ctx, model.RecordKYCRequest{
			EmployerID:       emp.EmployerID,
			AadhaarEncrypted: "v1:a",
			PANEncrypted:     "v1:p",
			AadhaarLast4:     "0123",
			PANMasked:        "AB******4F",
			SubmittedAt:      now,
		})
		require.NoError(t, err)
		assert.Equal(t, model.VerificationPending, resubmitted.VerificationStatus)
		assert.Nil(t, resubmitted.RejectionReason)
		assert.Nil(t, resubmitted.ReviewedBy)
		require.NotNil(t, resubmitted.AadhaarEncrypted)
		assert.Equal(t, "v1:a", *resubmitted.AadhaarEncrypted)

		approved, err := repo.SetVerification(ctx, model.SetVerificationRequest{
			EmployerID: emp.EmployerID,
			Status:     model.VerificationApproved,
			ReviewerID: &admin,
			Reason:     testutil.StringPtr("ignored on approve"),
			ReviewedAt: now,
		})
		require.NoError(t, err)
		assert.True(t, approved.CanPostJobs())
		assert.Nil(t, approved.RejectionReason)

		// An approved employer can still be rejected.
		again, err := repo.SetVerification(ctx, model.SetVerificationRequest{
			EmployerID: emp.EmployerID,
			Status:     model.VerificationRejected,
			ReviewedAt: now,
		})
		require.NoError(t, err)
		assert.Equal(t, model.VerificationRejected, again.VerificationStatus)

		status := model.VerificationRejected
		list, err := repo.List(ctx, model.EmployersListOptions{Status: &status})
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}

func TestEmployerRepo_Subscription(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEmployerRepo(db)
		plans := NewPlanRepo(db)
		emp := testutil.InsertEmployer(t, db, "approved")

		basic, err := plans.GetByCode(ctx, "basic")
		require.NoError(t, err)

		past := time.Now().Add(-time.Hour)
		e, err := repo.SetSubscription(ctx, model.SubscriptionRequest{
			EmployerID: emp.EmployerID,
			PlanID:     &basic.ID,
			ExpiresAt:  &past,
		})
		require.NoError(t, err)
		require.NotNil(t, e.SubscriptionPlanID)

		_, err = plans.Delete(ctx, basic.ID)
		require.ErrorIs(t, err, ErrPlanInUse)

		n, err := repo.ExpireSubscriptions(ctx, time.Now(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		e, err = repo.GetByID(ctx, emp.EmployerID)
		require.NoError(t, err)
		assert.Nil(t, e.SubscriptionPlanID)

		missing := "00000000-0000-0000-0000-000000000000"
		_, err = repo.SetSubscription(ctx, model.SubscriptionRequest{EmployerID: emp.EmployerID, PlanID: &missing})
		require.ErrorIs(t, err, ErrPlanNotFound)
	})
}
