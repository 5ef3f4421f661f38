package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/internal/adapters/authroles"
	"github.com/medexjob/medexjob-api/internal/adapters/jwtauth"
	"github.com/medexjob/medexjob-api/internal/adapters/password"
	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/mocks"
	authmocks "github.com/medexjob/medexjob-api/internal/mocks/auth"
	"github.com/medexjob/medexjob-api/internal/ports"
)

var authNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type authFixture struct {
	svc      *AuthService
	users    *mocks.MockUserRepository
	sessions *authmocks.MemorySessionStore
	hasher   *password.BcryptHasher
	provider *authmocks.FakeProvider
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	sessions := authmocks.NewMemorySessionStore()
	hasher := password.NewBcryptHasher(0)
	issuer, err := jwtauth.NewIssuer(jwtauth.Config{
		Secret: "0123456789abcdef0123456789abcdef",
		Issuer: "medexjob-test",
		Now:    func() time.Time { return authNow },
	})
	require.NoError(t, err)
	provider := authmocks.NewFakeProvider()

	svc := NewAuthService(AuthServiceOptions{
		Users: users,
		Ports: AuthPorts{
			Sessions:  sessions,
			Tokens:    issuer,
			Passwords: hasher,
			Provider:  provider,
			Roles:     authroles.StaticRoleMapper{AdminGroup: "medex-admins", EmployerGroup: "medex-employers"},
		},
		Settings: AuthSettings{SessionTTL: time.Hour, Now: func() time.Time { return authNow }},
	})
	return &authFixture{svc: svc, users: users, sessions: sessions, hasher: hasher, provider: provider}
}

func (f *authFixture) userWithPassword(t *testing.T, pw string, active bool) *model.User {
	t.Helper()
	hash, err := f.hasher.Hash(pw)
	require.NoError(t, err)
	return &model.User{
		ID:           "u-1",
		Email:        "asha@example.com",
		PasswordHash: &hash,
		FirstName:    "Asha",
		Role:         domainauth.RoleCandidate,
		IsActive:     active,
	}
}

func TestNewAuthService_RequiredDependencies(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{}) })
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
			assert.Equal(t, "clinic@example.com", req.Email)
			assert.Equal(t, domainauth.RoleEmployer, req.Role)
			require.NotNil(t, req.CompanyName)
			assert.Equal(t, "City Clinic", *req.CompanyName)
			require.NotNil(t, req.PasswordHash)
			assert.NotEqual(t, "s3cret-pass", *req.PasswordHash)
			return &model.User{ID: "u-7", Email: req.Email, Role: req.Role, IsActive: true}, nil
		})
	f.users.EXPECT().TouchLogin(gomock.Any(), "u-7", authNow).Return(nil)

	company := "City Clinic"
	resp, err := f.svc.Register(ctx, model.RegisterRequest{
		Email:       " Clinic@Example.com ",
		Password:    "s3cret-pass",
		FirstName:   "Ravi",
		Role:        "employer",
		CompanyName: &company,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, authNow.Add(time.Hour), resp.ExpiresAt)
	assert.Equal(t, "u-7", resp.User.ID)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuthService_Register_ValidationAndConflict(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: "short", FirstName: "A"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrEmailExists)
	_, err = f.svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: "long-enough", FirstName: "A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, data.ErrEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.userWithPassword(t, "correct-horse", true)
		f.users.EXPECT().GetByEmail(gomock.Any(), "asha@example.com").Return(user, nil)
		f.users.EXPECT().TouchLogin(gomock.Any(), "u-1", authNow).Return(nil)

		resp, err := f.svc.Login(ctx, model.LoginRequest{Email: "ASHA@example.com", Password: "correct-horse"})

		require.NoError(t, err)
		require.NotNil(t, resp.User.LastLoginAt)
		sess, err := f.svc.Authenticate(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", sess.UserID)
		assert.Equal(t, domainauth.RoleCandidate, sess.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(f.userWithPassword(t, "correct-horse", true), nil)

		_, err := f.svc.Login(ctx, model.LoginRequest{Email: "asha@example.com", Password: "battery-staple"})

		assert.True(t, apperrors.IsUnauthorized(err))
		assert.Equal(t, "invalid_credentials", apperrors.GetReason(err))
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, data.ErrUserNotFound)

		_, err := f.svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})

		assert.Equal(t, "invalid_credentials", apperrors.GetReason(err))
	})

	t.Run("inactive user is forbidden", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(f.userWithPassword(t, "correct-horse", false), nil)

		_, err := f.svc.Login(ctx, model.LoginRequest{Email: "asha@example.com", Password: "correct-horse"})

		assert.True(t, apperrors.IsForbidden(err))
		assert.Equal(t, 0, f.sessions.Len())
	})
}

func TestAuthService_LogoutInvalidatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(f.userWithPassword(t, "correct-horse", true), nil)
	f.users.EXPECT().TouchLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.svc.Login(ctx, model.LoginRequest{Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	sess, err := f.svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, sess.ID))
	require.NoError(t, f.svc.Logout(ctx, ""))

	_, err = f.svc.Authenticate(ctx, resp.Token)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Authenticate_BadToken(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Authenticate(context.Background(), "not-a-jwt")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_GetSession_DeletesExpired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{
		ID:        "s-old",
		UserID:    "u-1",
		ExpiresAt: authNow.Add(-time.Minute),
	}))

	_, err := f.svc.GetSession(ctx, "s-old")

	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	sess := domainauth.Session{ID: "s-1", UserID: "u-1", Role: domainauth.RoleCandidate, ExpiresAt: authNow.Add(time.Minute)}
	require.NoError(t, f.sessions.Save(ctx, sess))
	f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(&model.User{
		ID: "u-1", Role: domainauth.RoleEmployer, IsActive: true,
	}, nil)

	resp, err := f.svc.Refresh(ctx, sess)

	require.NoError(t, err)
	assert.Equal(t, authNow.Add(time.Hour), resp.ExpiresAt)
	stored, err := f.sessions.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleEmployer, stored.Role, "role changes are picked up on refresh")
	assert.Equal(t, authNow.Add(time.Hour), stored.ExpiresAt)
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(&model.User{ID: "u-1", IsActive: false}, nil)

	_, err := f.svc.Refresh(context.Background(), domainauth.Session{ID: "s-1", UserID: "u-1"})

	assert.True(t, apperrors.IsForbidden(err))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	first := "  Meera "
	f.users.EXPECT().
		UpdateProfile(gomock.Any(), "u-1", model.UpdateProfileRequest{FirstName: strPtr("Meera")}).
		Return(&model.User{ID: "u-1", FirstName: "Meera"}, nil)

	user, err := f.svc.UpdateProfile(context.Background(), "u-1", model.UpdateProfileRequest{FirstName: &first})

	require.NoError(t, err)
	assert.Equal(t, "Meera", user.FirstName)

	_, err = f.svc.UpdateProfile(context.Background(), "u-1", model.UpdateProfileRequest{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_RevokeUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	for _, id := range []string{"s-1", "s-2"} {
		require.NoError(t, f.sessions.Save(ctx, domainauth.Session{ID: id, UserID: "u-1", ExpiresAt: authNow.Add(time.Hour)}))
	}
	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{ID: "s-3", UserID: "u-2", ExpiresAt: authNow.Add(time.Hour)}))

	require.NoError(t, f.svc.RevokeUser(ctx, "u-1"))

	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuthService_SSO(t *testing.T) {
	ctx := context.Background()

	t.Run("begin requires redirect", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.BeginLogin(ctx, "")
		require.Error(t, err)

		res, err := f.svc.BeginLogin(ctx, "http://localhost:8080/auth/callback")
		require.NoError(t, err)
		assert.Equal(t, "https://mock-idp/auth", res.AuthURL)
		assert.NotEmpty(t, res.State)
		assert.NotEmpty(t, res.Nonce)
	})

	t.Run("creates unknown user with mapped role", func(t *testing.T) {
		f := newAuthFixture(t)
		f.provider.Identity.Groups = []string{"medex-admins"}
		f.users.EXPECT().GetByEmail(gomock.Any(), "mock.user@example.com").Return(nil, data.ErrUserNotFound)
		f.users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
				assert.Equal(t, domainauth.RoleAdmin, req.Role)
				assert.Nil(t, req.PasswordHash)
				return &model.User{ID: "u-sso", Email: req.Email, Role: req.Role, IsActive: true}, nil
			})
		f.users.EXPECT().TouchLogin(gomock.Any(), "u-sso", authNow).Return(nil)

		begin, err := f.svc.BeginLogin(ctx, "http://localhost/cb")
		require.NoError(t, err)
		res, err := f.svc.CompleteLogin(ctx, CompleteLoginInput{Code: "code", State: begin.State, Nonce: begin.Nonce})

		require.NoError(t, err)
		assert.Equal(t, "u-sso", res.Session.UserID)
		assert.Equal(t, domainauth.RoleAdmin, res.Session.Role)
		assert.NotEmpty(t, res.Response.Token)
	})

	t.Run("existing user keeps role when IdP maps to default", func(t *testing.T) {
		f := newAuthFixture(t)
		existing := &model.User{ID: "u-emp", Email: "mock.user@example.com", Role: domainauth.RoleEmployer, IsActive: true}
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(existing, nil)
		f.users.EXPECT().TouchLogin(gomock.Any(), "u-emp", gomock.Any()).Return(nil)

		res, err := f.svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "state-1", Nonce: "nonce-1"})

		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleEmployer, res.Session.Role)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("idp down")
		}

		_, err := f.svc.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "idp down")
	})
}

func TestAuthService_SSODisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	issuer, err := jwtauth.NewIssuer(jwtauth.Config{Secret: "0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)
	svc := NewAuthService(AuthServiceOptions{
		Users: mocks.NewMockUserRepository(ctrl),
		Ports: AuthPorts{
			Sessions:  authmocks.NewMemorySessionStore(),
			Tokens:    issuer,
			Passwords: password.NewBcryptHasher(0),
		},
	})

	assert.False(t, svc.SSOEnabled())
	_, err = svc.BeginLogin(context.Background(), "http://x/cb")
	assert.True(t, apperrors.IsNotFound(err))
}
