package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// sessionRevoker drops every session of a user. AuthService implements it.
type sessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo     core.UserRepository // Required
	Sessions sessionRevoker      // Optional: revokes sessions on deactivation and delete
	Logger   *slog.Logger
}

// UserService provides admin moderation of user accounts.
type UserService struct {
	repo     core.UserRepository
	sessions sessionRevoker
	logger   *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Repo == nil {
		panic("UserRepository is required")
	}
	return &UserService{
		repo:     opts.Repo,
		sessions: opts.Sessions,
		logger:   componentLogger(opts.Logger, "user_service"),
	}
}

// List returns users matching opts.
func (s *UserService) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	opts.ListOptions = normalizeListOptions(opts.ListOptions)
	users, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByID returns one user.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update changes a user's active flag or role. Deactivation and role
// changes drop the user's sessions so the next request re-authenticates.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if !user.IsActive || user.Role != before.Role {
		s.revoke(ctx, id)
	}
	s.logger.InfoContext(ctx, "user updated", "user_id", id, "is_active", user.IsActive, "role", user.Role)
	return user, nil
}

// Delete removes a user and everything that cascades from it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return data.ErrUserNotFound
	}
	s.revoke(ctx, id)
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) revoke(ctx context.Context, userID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.RevokeUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "revoke sessions failed", "user_id", userID, "error", err)
	}
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func normalizeListOptions(o model.ListOptions) model.ListOptions {
	if o.Limit <= 0 {
		o.Limit = defaultListLimit
	}
	if o.Limit > maxListLimit {
		o.Limit = maxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
