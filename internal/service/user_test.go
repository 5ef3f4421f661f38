package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/mocks"
)

type revokeRecorder struct{ users []string }

func (r *revokeRecorder) RevokeUser(_ context.Context, userID string) error {
	r.users = append(r.users, userID)
	return nil
}

func TestUserService_List_NormalizesPaging(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Repo: repo})

	repo.EXPECT().
		List(gomock.Any(), model.UsersListOptions{ListOptions: model.ListOptions{Limit: 100}}).
		Return([]*model.User{{ID: "u-1"}}, nil)

	users, err := svc.List(context.Background(), model.UsersListOptions{
		ListOptions: model.ListOptions{Limit: 5000, Offset: -3},
	})

	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_Update(t *testing.T) {
	active := false
	role := domainauth.RoleEmployer

	tests := []struct {
		name        string
		req         model.UpdateUserRequest
		before      model.User
		after       model.User
		wantRevoked bool
	}{
		{
			name:        "deactivation revokes sessions",
			req:         model.UpdateUserRequest{IsActive: &active},
			before:      model.User{ID: "u-1", Role: domainauth.RoleCandidate, IsActive: true},
			after:       model.User{ID: "u-1", Role: domainauth.RoleCandidate, IsActive: false},
			wantRevoked: true,
		},
		{
			name:        "role change revokes sessions",
			req:         model.UpdateUserRequest{Role: &role},
			before:      model.User{ID: "u-1", Role: domainauth.RoleCandidate, IsActive: true},
			after:       model.User{ID: "u-1", Role: domainauth.RoleEmployer, IsActive: true},
			wantRevoked: true,
		},
		{
			name:   "no-op role keeps sessions",
			req:    model.UpdateUserRequest{Role: &role},
			before: model.User{ID: "u-1", Role: domainauth.RoleEmployer, IsActive: true},
			after:  model.User{ID: "u-1", Role: domainauth.RoleEmployer, IsActive: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockUserRepository(ctrl)
			revoker := &revokeRecorder{}
			svc := NewUserService(UserServiceOptions{Repo: repo, Sessions: revoker})

			before, after := tt.before, tt.after
			repo.EXPECT().GetByID(gomock.Any(), "u-1").Return(&before, nil)
			repo.EXPECT().Update(gomock.Any(), "u-1", gomock.Any()).Return(&after, nil)

			_, err := svc.Update(context.Background(), "u-1", tt.req)

			require.NoError(t, err)
			if tt.wantRevoked {
				assert.Equal(t, []string{"u-1"}, revoker.users)
			} else {
				assert.Empty(t, revoker.users)
			}
		})
	}
}

func TestUserService_Update_RejectsEmptyPatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewUserService(UserServiceOptions{Repo: mocks.NewMockUserRepository(ctrl)})

	_, err := svc.Update(context.Background(), "u-1", model.UpdateUserRequest{})

	assert.True(t, apperrors.IsValidation(err))
}

func TestUserService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	revoker := &revokeRecorder{}
	svc := NewUserService(UserServiceOptions{Repo: repo, Sessions: revoker})

	repo.EXPECT().Delete(gomock.Any(), "u-1").Return(true, nil)
	require.NoError(t, svc.Delete(context.Background(), "u-1"))
	assert.Equal(t, []string{"u-1"}, revoker.users)

	repo.EXPECT().Delete(gomock.Any(), "u-2").Return(false, nil)
	err := svc.Delete(context.Background(), "u-2")
	assert.ErrorIs(t, err, data.ErrUserNotFound)
}
