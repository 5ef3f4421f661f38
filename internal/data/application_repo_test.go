package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/testutil"
)

func TestApplicationRepo_Lifecycle(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewApplicationRepo(db)
		emp := testutil.InsertEmployer(t, db, "approved")
		jobID := testutil.InsertJob(t, db, emp.EmployerID, testutil.JobFixture{Title: "Pharmacist"})
		candidate := testutil.InsertUser(t, db, "candidate")

		app, err := repo.Create(ctx, model.CreateApplicationRequest{
			JobID:       jobID,
			CandidateID: candidate,
			CoverLetter: testutil.StringPtr("Five years in retail pharmacy."),
		})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationSubmitted, app.Status)
		assert.Equal(t, "Pharmacist", app.JobTitle)
		assert.Equal(t, emp.EmployerID, app.EmployerID)
		assert.Equal(t, "Test User", app.CandidateName)
		assert.Nil(t, app.ResumeURL)

		_, err = repo.Create(ctx, model.CreateApplicationRequest{JobID: jobID, CandidateID: candidate})
		require.ErrorIs(t, err, ErrApplicationExists)

		moved, err := repo.UpdateStatus(ctx, model.UpdateApplicationStatusRequest{
			ID:    app.ID,
			From:  model.ApplicationSubmitted,
			To:    model.ApplicationShortlisted,
			Notes: testutil.StringPtr("strong profile"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationShortlisted, moved.Status)
		require.NotNil(t, moved.EmployerNotes)
		assert.Equal(t, "strong profile", *moved.EmployerNotes)

		// Stale From loses.
		_, err = repo.UpdateStatus(ctx, model.UpdateApplicationStatusRequest{
			ID:   app.ID,
			From: model.ApplicationSubmitted,
			To:   model.ApplicationRejected,
		})
		require.ErrorIs(t, err, ErrApplicationStatusConflict)

		_, err = repo.UpdateStatus(ctx, model.UpdateApplicationStatusRequest{
			ID:   "00000000-0000-0000-0000-000000000000",
			From: model.ApplicationSubmitted,
			To:   model.ApplicationRejected,
		})
		require.ErrorIs(t, err, ErrApplicationNotFound)

		byEmployer, err := repo.List(ctx, model.ApplicationsListOptions{EmployerID: &emp.EmployerID})
		require.NoError(t, err)
		require.Len(t, byEmployer, 1)

		status := model.ApplicationRejected
		none, err := repo.List(ctx, model.ApplicationsListOptions{CandidateID: &candidate, Status: &status})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestApplicationRepo_UnknownJob(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		candidate := testutil.InsertUser(t, db, "candidate")

		_, err := repo.Create(context.Background(), model.CreateApplicationRequest{
			JobID:       "00000000-0000-0000-0000-000000000000",
			CandidateID: candidate,
		})
		require.ErrorIs(t, err, ErrJobNotFound)
	})
}
