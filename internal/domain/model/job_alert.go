package model

import (
	"time"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxAlertNameLen   = 100
	maxAlertFilterLen = 2000
)

// JobAlert is a saved job search. Filter is a JMESPath expression
// evaluated against the job's JSON form.
type JobAlert struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Name      string    `json:"name"       db:"name"`
	Filter    string    `json:"filter"     db:"filter"`
	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateJobAlertRequest represents parameters to create a JobAlert.
type CreateJobAlertRequest struct {
	Name     string `json:"name"`
	Filter   string `json:"filter"`
	IsActive *bool  `json:"is_active,omitempty"`

	UserID string `json:"-"`
}

// Validate checks required fields. Expression syntax is checked by the service.
func (r *CreateJobAlertRequest) Validate() error {
	if err := requireText("name", &r.Name, maxAlertNameLen); err != nil {
		return err
	}
	return requireText("filter", &r.Filter, maxAlertFilterLen)
}

// UpdateJobAlertRequest represents parameters to update a JobAlert.
type UpdateJobAlertRequest struct {
	Name     *string `json:"name,omitempty"`
	Filter   *string `json:"filter,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Validate ensures at least one field is set.
func (r *UpdateJobAlertRequest) Validate() error {
	if r.Name == nil && r.Filter == nil && r.IsActive == nil {
		return errNoUpdates()
	}
	if err := nonEmptyText("name", r.Name, maxAlertNameLen); err != nil {
		return err
	}
	if err := nonEmptyText("filter", r.Filter, maxAlertFilterLen); err != nil {
		return err
	}
	return nil
}

// ErrInvalidAlertFilter wraps a JMESPath compile error as a validation error.
func ErrInvalidAlertFilter(err error) error {
	return apperrors.ValidationField("filter", "filter is not a valid expression: "+err.Error())
}
