package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/ports"
)

// DefaultSessionTTL is used when AuthSettings.SessionTTL is unset.
const DefaultSessionTTL = 24 * time.Hour

var (
	errInvalidCredentials = apperrors.Unauthorized("invalid email or password").WithReason("invalid_credentials")
	errAccountInactive    = apperrors.Forbidden("account is disabled").WithReason("account_inactive")
	errSessionInvalid     = apperrors.Unauthorized("session is invalid or expired").WithReason("unauthorized")
)

// AuthPorts groups the adapter ports used by AuthService.
// Provider and Roles are only needed for SSO.
type AuthPorts struct {
	Sessions  ports.SessionStore
	Tokens    ports.TokenIssuer
	Passwords ports.PasswordHasher
	Provider  ports.AuthProvider
	Roles     ports.RoleMapper
}

// AuthSettings configures session lifetime and the clock.
type AuthSettings struct {
	SessionTTL time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    core.UserRepository
	Ports    AuthPorts
	Settings AuthSettings
}

// AuthService handles password and SSO sign-in and the Redis-backed sessions
// that every bearer token is bound to.
type AuthService struct {
	users     core.UserRepository
	sessions  ports.SessionStore
	tokens    ports.TokenIssuer
	passwords ports.PasswordHasher
	provider  ports.AuthProvider
	roles     ports.RoleMapper
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Ports.Sessions == nil || opts.Ports.Tokens == nil || opts.Ports.Passwords == nil {
		panic("session store, token issuer and password hasher are required")
	}
	ttl := opts.Settings.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:     opts.Users,
		sessions:  opts.Ports.Sessions,
		tokens:    opts.Ports.Tokens,
		passwords: opts.Ports.Passwords,
		provider:  opts.Ports.Provider,
		roles:     opts.Ports.Roles,
		ttl:       ttl,
		now:       clockOrDefault(opts.Settings.Now),
		logger:    componentLogger(opts.Settings.Logger, "auth_service"),
	}
}

// SSOEnabled reports whether an identity provider is configured.
func (s *AuthService) SSOEnabled() bool { return s.provider != nil && s.roles != nil }

// Register creates a candidate or employer account and signs it in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := domainauth.Role(req.Role)
	create := &model.CreateUserRequest{
		Email:        req.Email,
		PasswordHash: &hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
	}
	if role == domainauth.RoleEmployer {
		create.CompanyName = req.CompanyName
	}
	user, err := s.users.Create(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return s.startSession(ctx, user)
}

// Login checks email and password and starts a session.
// Unknown emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.PasswordHash == nil || s.passwords.Compare(*user.PasswordHash, req.Password) != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, errAccountInactive
	}
	return s.startSession(ctx, user)
}

// Logout deletes the session. The token naming it stops working immediately.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate verifies a bearer token and returns the live session it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domainauth.Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid token").WithReason("unauthorized")
	}
	sess, err := s.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != claims.UserID {
		return nil, errSessionInvalid
	}
	return sess, nil
}

// GetSession returns a live session by ID, deleting it if it has expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errSessionInvalid
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.DebugContext(ctx, "session lookup failed", "error", err)
		return nil, errSessionInvalid
	}
	if !s.now().Before(sess.ExpiresAt) {
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			s.logger.WarnContext(ctx, "delete expired session failed", "error", delErr)
		}
		return nil, errSessionInvalid
	}
	return &sess, nil
}

// Refresh extends the session and issues a new token for it. The previous
// token stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, sess domainauth.Session) (*model.AuthResponse, error) {
	user, err := s.activeUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.Role = user.Role
	sess.ExpiresAt = s.now().Add(s.ttl)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s.respond(sess, user)
}

// Me returns the account behind a session.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile edits the caller's own name and phone.
func (s *AuthService) UpdateProfile(
	ctx context.Context,
	userID string,
	req model.UpdateProfileRequest,
) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// RevokeUser deletes every session of a user.
func (s *AuthService) RevokeUser(ctx context.Context, userID string) error {
	n, err := s.sessions.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "revoked user sessions", "user_id", userID, "count", n)
	}
	return nil
}

// BeginLoginResult is the provider URL plus the state and nonce the handler
// parks in short-lived cookies.
type BeginLoginResult = ports.LoginChallenge

// BeginLogin starts an SSO login. redirectURL is where the browser returns
// after the callback and must already be sanitised by the caller.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if !s.SSOEnabled() {
		return nil, apperrors.NotFound("single sign-on is not configured").WithReason("sso_disabled")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	ch, err := s.provider.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &ch, nil
}

// CompleteLoginInput groups parameters for completing an SSO login.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult is the session created by an SSO login, with its token.
type CompleteLoginResult struct {
	Session  domainauth.Session
	Response *model.AuthResponse
}

// CompleteLogin exchanges the code, finds or creates the user by email and
// starts a session. A non-default role from the IdP groups is applied to the account.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*CompleteLoginResult, error) {
	if !s.SSOEnabled() {
		return nil, apperrors.NotFound("single sign-on is not configured").WithReason("sso_disabled")
	}
	if in.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if in.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if in.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}
	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: in.Code, State: in.State, Nonce: in.Nonce})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	email, err := model.NormalizeEmail(identity.Email)
	if err != nil {
		return nil, fmt.Errorf("identity email: %w", err)
	}
	role := s.roles.Map(identity.Groups)

	user, err := s.findOrCreateSSOUser(ctx, email, role, identity)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errAccountInactive
	}
	sess, resp, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &CompleteLoginResult{Session: sess, Response: resp}, nil
}

func (s *AuthService) findOrCreateSSOUser(
	ctx context.Context,
	email string,
	role domainauth.Role,
	identity domainauth.Identity,
) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if role != domainauth.RoleCandidate && user.Role != role {
			updated, updErr := s.users.Update(ctx, user.ID, model.UpdateUserRequest{Role: &role})
			if updErr != nil {
				return nil, fmt.Errorf("apply sso role: %w", updErr)
			}
			s.logger.InfoContext(ctx, "sso role applied", "user_id", user.ID, "from", user.Role, "to", role)
			return updated, nil
		}
		return user, nil
	case errors.Is(err, data.ErrUserNotFound):
		first := identity.FirstName
		if first == "" {
			first = email
		}
		create := &model.CreateUserRequest{
			Email:     email,
			FirstName: first,
			LastName:  identity.LastName,
			Role:      role,
		}
		if role == domainauth.RoleEmployer {
			create.CompanyName = strPtr(first + " " + identity.LastName)
		}
		created, createErr := s.users.Create(ctx, create)
		if createErr != nil {
			return nil, fmt.Errorf("create sso user: %w", createErr)
		}
		s.logger.InfoContext(ctx, "sso user created", "user_id", created.ID, "role", created.Role)
		return created, nil
	default:
		return nil, fmt.Errorf("get user: %w", err)
	}
}

func (s *AuthService) activeUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, errSessionInvalid
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, errAccountInactive
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	_, resp, err := s.openSession(ctx, user)
	return resp, err
}

func (s *AuthService) openSession(
	ctx context.Context,
	user *model.User,
) (domainauth.Session, *model.AuthResponse, error) {
	now := s.now()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return sess, nil, fmt.Errorf("save session: %w", err)
	}
	if err := s.users.TouchLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "record last login failed", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}
	resp, err := s.respond(sess, user)
	return sess, resp, err
}

func (s *AuthService) respond(sess domainauth.Session, user *model.User) (*model.AuthResponse, error) {
	token, exp, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.AuthResponse{Token: token, ExpiresAt: exp, User: *user}, nil
}
