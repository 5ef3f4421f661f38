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

func TestPlanRepo_SeedsAndCRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewPlanRepo(db)

		seeded, err := repo.List(ctx, true)
		require.NoError(t, err)
		codes := make([]string, 0, len(seeded))
		for _, p := range seeded {
			codes = append(codes, p.Code)
		}
		assert.Equal(t, []string{"free", "basic", "premium"}, codes)

		inactive := false
		req := &model.CreatePlanRequest{
			Code:         "hospital-chain",
			Name:         "Hospital Chain",
			PriceCents:   999900,
			DurationDays: 365,
			JobPostLimit: 100,
			Features:     []string{"Dedicated manager"},
			IsActive:     &inactive,
			SortOrder:    40,
		}
		require.NoError(t, req.Validate())
		p, err := repo.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "INR", p.Currency)
		assert.False(t, p.IsActive)

		_, err = repo.Create(ctx, req)
		require.ErrorIs(t, err, ErrPlanCodeExists)

		active, err := repo.List(ctx, true)
		require.NoError(t, err)
		assert.Len(t, active, 3)
		all, err := repo.List(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		limit := 0
		updated, err := repo.Update(ctx, p.ID, model.UpdatePlanRequest{JobPostLimit: &limit})
		require.NoError(t, err)
		assert.Equal(t, 0, updated.JobPostLimit)

		deleted, err := repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		_, err = repo.GetByID(ctx, p.ID)
		require.ErrorIs(t, err, ErrPlanNotFound)
	})
}
