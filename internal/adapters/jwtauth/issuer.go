// Package jwtauth issues and verifies the HS256 bearer tokens handed to the SPA.
package jwtauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

const minSecretLen = 32

// Claims is the token payload. The session ID travels as "sid".
type Claims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Config configures an Issuer.
type Config struct {
	Secret string
	Issuer string
	Now    func() time.Time // defaults to time.Now
}

// Issuer implements ports.TokenIssuer with HMAC-SHA256.
type Issuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLen)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(secret), issuer: cfg.Issuer, now: now}, nil
}

// Issue signs a token for sess that expires with the session.
func (i *Issuer) Issue(sess domainauth.Session) (string, time.Time, error) {
	if sess.ID == "" || sess.UserID == "" {
		return "", time.Time{}, errors.New("session id and user id are required")
	}
	now := i.now()
	if !sess.ExpiresAt.After(now) {
		return "", time.Time{}, errors.New("session is expired")
	}
	claims := Claims{
		SessionID: sess.ID,
		Role:      string(sess.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sess.UserID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks signature, issuer and expiry and returns the claims.
// It does not check that the session still exists.
func (i *Issuer) Verify(token string) (domainauth.TokenClaims, error) {
	if strings.TrimSpace(token) == "" {
		return domainauth.TokenClaims{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5 * time.Second),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domainauth.TokenClaims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.SessionID == "" {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}
	role, err := domainauth.ParseRole(claims.Role)
	if err != nil {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return domainauth.TokenClaims{
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
