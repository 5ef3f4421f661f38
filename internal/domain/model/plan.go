package model

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxPlanNameLen     = 100
	maxPlanFeatures    = 30
	maxPlanFeatureLen  = 200
	maxPlanDescription = 1000
)

var planCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,31}$`)

// SubscriptionPlan is an employer plan. JobPostLimit 0 means unlimited.
type SubscriptionPlan struct {
	ID           string    `json:"id"                    db:"id"`
	Code         string    `json:"code"                  db:"code"`
	Name         string    `json:"name"                  db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	PriceCents   int64     `json:"price_cents"           db:"price_cents"`
	Currency     string    `json:"currency"              db:"currency"`
	DurationDays int       `json:"duration_days"         db:"duration_days"`
	JobPostLimit int       `json:"job_post_limit"        db:"job_post_limit"`
	Features     []string  `json:"features"              db:"features"`
	IsActive     bool      `json:"is_active"             db:"is_active"`
	SortOrder    int       `json:"sort_order"            db:"sort_order"`
	CreatedAt    time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"            db:"updated_at"`
}

// AllowsOpenJobs reports whether another open job fits under the plan limit.
func (p SubscriptionPlan) AllowsOpenJobs(current int) bool {
	return p.JobPostLimit == 0 || current < p.JobPostLimit
}

// CreatePlanRequest represents parameters to create a SubscriptionPlan.
type CreatePlanRequest struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	PriceCents   int64    `json:"price_cents"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration_days"`
	JobPostLimit int      `json:"job_post_limit"`
	Features     []string `json:"features"`
	IsActive     *bool    `json:"is_active,omitempty"`
	SortOrder    int      `json:"sort_order"`
}

// Validate validates CreatePlanRequest.
func (r *CreatePlanRequest) Validate() error {
	r.Code = strings.ToLower(strings.TrimSpace(r.Code))
	if !planCodePattern.MatchString(r.Code) {
		return apperrors.ValidationField("code",
			"code must be 2-32 lowercase letters, digits, dashes or underscores")
	}
	if err := requireText("name", &r.Name, maxPlanNameLen); err != nil {
		return err
	}
	if err := optionalText("description", r.Description, maxPlanDescription); err != nil {
		return err
	}
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = "INR"
	}
	if err := validatePlanNumbers(r.PriceCents, r.Currency, r.DurationDays, r.JobPostLimit); err != nil {
		return err
	}
	features, err := cleanList("features", r.Features, maxPlanFeatures, maxPlanFeatureLen)
	if err != nil {
		return err
	}
	r.Features = features
	return nil
}

// UpdatePlanRequest represents parameters to update a SubscriptionPlan.
type UpdatePlanRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	PriceCents   *int64   `json:"price_cents,omitempty"`
	Currency     *string  `json:"currency,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	JobPostLimit *int     `json:"job_post_limit,omitempty"`
	Features     []string `json:"features,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
	SortOrder    *int     `json:"sort_order,omitempty"`
}

// Validate validates UpdatePlanRequest.
func (r *UpdatePlanRequest) Validate() error {
	if r.Name == nil && r.Description == nil && r.PriceCents == nil && r.Currency == nil &&
		r.DurationDays == nil && r.JobPostLimit == nil && r.Features == nil && r.IsActive == nil &&
		r.SortOrder == nil {
		return errNoUpdates()
	}
	if err := nonEmptyText("name", r.Name, maxPlanNameLen); err != nil {
		return err
	}
	if err := optionalText("description", r.Description, maxPlanDescription); err != nil {
		return err
	}
	if r.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*r.Currency))
		r.Currency = &c
		if len(c) != 3 {
			return apperrors.ValidationField("currency", "currency must be a 3-letter code")
		}
	}
	if r.PriceCents != nil && *r.PriceCents < 0 {
		return apperrors.ValidationField("price_cents", "price_cents cannot be negative")
	}
	if r.DurationDays != nil && (*r.DurationDays < 1 || *r.DurationDays > 3660) {
		return apperrors.ValidationField("duration_days", "duration_days must be between 1 and 3660")
	}
	if r.JobPostLimit != nil && *r.JobPostLimit < 0 {
		return apperrors.ValidationField("job_post_limit", "job_post_limit cannot be negative")
	}
	if r.Features != nil {
		features, err := cleanList("features", r.Features, maxPlanFeatures, maxPlanFeatureLen)
		if err != nil {
			return err
		}
		r.Features = features
	}
	return nil
}

func validatePlanNumbers(price int64, currency string, days, limit int) error {
	if price < 0 {
		return apperrors.ValidationField("price_cents", "price_cents cannot be negative")
	}
	if len(currency) != 3 {
		return apperrors.ValidationField("currency", "currency must be a 3-letter code")
	}
	if days < 1 || days > 3660 {
		return apperrors.ValidationField("duration_days", "duration_days must be between 1 and 3660")
	}
	if limit < 0 {
		return apperrors.ValidationField("job_post_limit", "job_post_limit cannot be negative")
	}
	return nil
}

// SubscriptionRequest is the repository write for a subscription change.
type SubscriptionRequest struct {
	EmployerID string
	PlanID     *string
	ExpiresAt  *time.Time
}
