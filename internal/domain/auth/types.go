package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and token claims.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployer  Role = "employer"
	RoleCandidate Role = "candidate"
	RoleGuest     Role = "guest"
)

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleCandidate:
		return true
	}
	return false
}

// ParseRole normalises and validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("role must be one of: candidate, employer, admin")
	}
	return r, nil
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// ErrSessionNotFound reports a missing, expired or revoked session.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier that also appears as the token "sid" claim.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// HasRole reports whether the session may act as one of roles.
// Admins may act as any role.
func (s Session) HasRole(roles ...Role) bool {
	if s.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	UserID    string
	SessionID string
	Role      Role
	ExpiresAt time.Time
}
