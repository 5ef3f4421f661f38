package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/testutil"
)

func TestUserRepo_CreateEmployerWithCompany(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		users := NewUserRepo(db)
		employers := NewEmployerRepo(db)

		email := testutil.UniqueEmail("Owner")
		u, err := users.Create(ctx, &model.CreateUserRequest{
			Email:        email,
			PasswordHash: testutil.StringPtr("hash"),
			FirstName:    "Asha",
			LastName:     "Rao",
			Role:         domainauth.RoleEmployer,
			CompanyName:  testutil.StringPtr("  City Hospital "),
		})
		require.NoError(t, err)
		assert.True(t, u.IsActive)
		assert.Equal(t, domainauth.RoleEmployer, u.Role)

		emp, err := employers.GetByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "City Hospital", emp.CompanyName)
		assert.Equal(t, model.VerificationPending, emp.VerificationStatus)

		byEmail, err := users.GetByEmail(ctx, "  "+email+" ")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		_, err = users.Create(ctx, &model.CreateUserRequest{
			Email:     email,
			FirstName: "Dup",
			Role:      domainauth.RoleCandidate,
		})
		require.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestUserRepo_UpdateAndDelete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		users := NewUserRepo(db)
		id := testutil.InsertUser(t, db, "candidate")

		inactive := false
		u, err := users.Update(ctx, id, model.UpdateUserRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, u.IsActive)

		u, err = users.UpdateProfile(ctx, id, model.UpdateProfileRequest{Phone: testutil.StringPtr("+91 98765 43210")})
		require.NoError(t, err)
		require.NotNil(t, u.Phone)
		assert.Equal(t, "+91 98765 43210", *u.Phone)

		require.NoError(t, users.TouchLogin(ctx, id, time.Now()))
		u, err = users.GetByID(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, u.LastLoginAt)

		role := domainauth.RoleCandidate
		list, err := users.List(ctx, model.UsersListOptions{Role: &role, IsActive: &inactive})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, id, list[0].ID)

		deleted, err := users.Delete(ctx, id)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = users.GetByID(ctx, id)
		require.ErrorIs(t, err, ErrUserNotFound)

		_, err = users.GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
