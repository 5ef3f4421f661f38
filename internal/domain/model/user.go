package model

import (
	"net/mail"
	"strings"
	"time"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxNameLen     = 100
	maxEmailLen    = 254
	maxPhoneLen    = 20
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores bytes past 72
)

// User is an account of any role. PasswordHash never leaves the service layer.
type User struct {
	ID           string          `json:"id"                      db:"id"`
	Email        string          `json:"email"                   db:"email"`
	PasswordHash *string         `json:"-"                       db:"password_hash"`
	FirstName    string          `json:"first_name"              db:"first_name"`
	LastName     string          `json:"last_name"               db:"last_name"`
	Phone        *string         `json:"phone,omitempty"         db:"phone"`
	Role         domainauth.Role `json:"role"                    db:"role"`
	IsActive     bool            `json:"is_active"               db:"is_active"`
	LastLoginAt  *time.Time      `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time       `json:"created_at"              db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"              db:"updated_at"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CreateUserRequest is the repository-level insert for a user.
// When CompanyName is set for an employer, the employer record is
// created in the same transaction.
type CreateUserRequest struct {
	Email        string
	PasswordHash *string
	FirstName    string
	LastName     string
	Phone        *string
	Role         domainauth.Role
	CompanyName  *string
}

// RegisterRequest is the public sign-up payload.
type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone,omitempty"`
	Role        string  `json:"role"`
	CompanyName *string `json:"company_name,omitempty"`
}

// Validate normalises and validates RegisterRequest.
func (r *RegisterRequest) Validate() error {
	email, err := NormalizeEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}
	if err := requireText("first_name", &r.FirstName, maxNameLen); err != nil {
		return err
	}
	if err := optionalText("last_name", &r.LastName, maxNameLen); err != nil {
		return err
	}
	if err := optionalText("phone", r.Phone, maxPhoneLen); err != nil {
		return err
	}
	role := domainauth.Role(strings.ToLower(strings.TrimSpace(r.Role)))
	if role == "" {
		role = domainauth.RoleCandidate
	}
	if role != domainauth.RoleCandidate && role != domainauth.RoleEmployer {
		return apperrors.ValidationField("role", "role must be one of: candidate, employer")
	}
	r.Role = string(role)
	if role == domainauth.RoleEmployer {
		if r.CompanyName == nil {
			return apperrors.ValidationField("company_name", "company_name is required and cannot be empty")
		}
		if err := requireText("company_name", r.CompanyName, maxCompanyNameLen); err != nil {
			return err
		}
	}
	return nil
}

// LoginRequest is the email/password login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalises the email and requires both fields.
func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return apperrors.ValidationField("email", "email is required and cannot be empty")
	}
	if r.Password == "" {
		return apperrors.ValidationField("password", "password is required and cannot be empty")
	}
	return nil
}

// AuthResponse is returned by register, login and token refresh.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// UpdateUserRequest is the admin moderation patch for a user.
type UpdateUserRequest struct {
	IsActive *bool            `json:"is_active,omitempty"`
	Role     *domainauth.Role `json:"role,omitempty"`
}

// Validate ensures at least one field is set and the role is assignable.
func (r *UpdateUserRequest) Validate() error {
	if r.IsActive == nil && r.Role == nil {
		return errNoUpdates()
	}
	if r.Role != nil {
		role, err := domainauth.ParseRole(string(*r.Role))
		if err != nil {
			return apperrors.ValidationField("role", err.Error())
		}
		r.Role = &role
	}
	return nil
}

// UpdateProfileRequest lets a user edit their own name and phone.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Validate ensures at least one field is set and values are sane.
func (r *UpdateProfileRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Phone == nil {
		return errNoUpdates()
	}
	if err := nonEmptyText("first_name", r.FirstName, maxNameLen); err != nil {
		return err
	}
	if err := optionalText("last_name", r.LastName, maxNameLen); err != nil {
		return err
	}
	return optionalText("phone", r.Phone, maxPhoneLen)
}

// UsersListOptions filters the admin user listing.
type UsersListOptions struct {
	ListOptions
	Q        *string
	Role     *domainauth.Role
	IsActive *bool
}

// NormalizeEmail lower-cases and validates an email address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.ValidationField("email", "email is required and cannot be empty")
	}
	if len(email) > maxEmailLen {
		return "", apperrors.ValidationField("email", "email cannot exceed 254 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", apperrors.ValidationField("email", "email must be a valid address")
	}
	return email, nil
}

// ValidatePassword enforces the password length policy.
func ValidatePassword(pw string) error {
	if len(pw) < minPasswordLen {
		return apperrors.ValidationField("password", "password must be at least 8 characters")
	}
	if len(pw) > maxPasswordLen {
		return apperrors.ValidationField("password", "password cannot exceed 72 characters")
	}
	return nil
}
