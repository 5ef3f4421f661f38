package model

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxCompanyNameLen = 200
	maxURLLen         = 2048
	maxAddressLen     = 500
	maxDescriptionLen = 10000
	maxReasonLen      = 1000
)

// VerificationStatus is the KYC state of an employer.
// Admins set it directly; the latest call wins.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether the status is supported.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	default:
		return false
	}
}

// ParseVerificationStatus normalizes a status string and reports whether it is supported.
func ParseVerificationStatus(value string) (VerificationStatus, bool) {
	s := VerificationStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Employer is the company account attached to an employer user.
// Encrypted KYC numbers are never serialized; only their masks are.
type Employer struct {
	ID                    string             `json:"id"                                db:"id"`
	UserID                string             `json:"user_id"                           db:"user_id"`
	CompanyName           string             `json:"company_name"                      db:"company_name"`
	CompanyWebsite        *string            `json:"company_website,omitempty"         db:"company_website"`
	CompanyDomain         *string            `json:"company_domain,omitempty"          db:"company_domain"`
	ContactPhone          *string            `json:"contact_phone,omitempty"           db:"contact_phone"`
	Address               *string            `json:"address,omitempty"                 db:"address"`
	Description           *string            `json:"description,omitempty"             db:"description"`
	LogoURL               *string            `json:"logo_url,omitempty"                db:"logo_url"`
	VerificationStatus    VerificationStatus `json:"verification_status"               db:"verification_status"`
	AadhaarEncrypted      *string            `json:"-"                                 db:"aadhaar_encrypted"`
	PANEncrypted          *string            `json:"-"                                 db:"pan_encrypted"`
	AadhaarLast4          *string            `json:"aadhaar_last4,omitempty"           db:"aadhaar_last4"`
	PANMasked             *string            `json:"pan_masked,omitempty"              db:"pan_masked"`
	KYCDocumentURL        *string            `json:"kyc_document_url,omitempty"        db:"kyc_document_url"`
	KYCSubmittedAt        *time.Time         `json:"kyc_submitted_at,omitempty"        db:"kyc_submitted_at"`
	ReviewedAt            *time.Time         `json:"reviewed_at,omitempty"             db:"reviewed_at"`
	ReviewedBy            *string            `json:"reviewed_by,omitempty"             db:"reviewed_by"`
	RejectionReason       *string            `json:"rejection_reason,omitempty"        db:"rejection_reason"`
	SubscriptionPlanID    *string            `json:"subscription_plan_id,omitempty"    db:"subscription_plan_id"`
	SubscriptionExpiresAt *time.Time         `json:"subscription_expires_at,omitempty" db:"subscription_expires_at"`
	CreatedAt             time.Time          `json:"created_at"                        db:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"                        db:"updated_at"`
}

// CanPostJobs reports whether the employer passed verification.
func (e Employer) CanPostJobs() bool {
	return e.VerificationStatus == VerificationApproved
}

// HasActivePlan reports whether a subscription is set and unexpired at now.
func (e Employer) HasActivePlan(now time.Time) bool {
	return e.SubscriptionPlanID != nil && (e.SubscriptionExpiresAt == nil || e.SubscriptionExpiresAt.After(now))
}

// CreateEmployerRequest is the repository insert made at employer sign-up.
type CreateEmployerRequest struct {
	UserID      string
	CompanyName string
}

// UpdateEmployerProfileRequest is the employer's partial profile edit.
type UpdateEmployerProfileRequest struct {
	CompanyName    *string `json:"company_name,omitempty"`
	CompanyWebsite *string `json:"company_website,omitempty"`
	ContactPhone   *string `json:"contact_phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	Description    *string `json:"description,omitempty"`
	LogoURL        *string `json:"logo_url,omitempty"`

	// CompanyDomain is derived from CompanyWebsite by the service.
	CompanyDomain *string `json:"-"`
}

// HasUpdates reports whether any field is set.
func (r *UpdateEmployerProfileRequest) HasUpdates() bool {
	return r.CompanyName != nil || r.CompanyWebsite != nil || r.ContactPhone != nil || r.Address != nil ||
		r.Description != nil || r.LogoURL != nil
}

// Validate ensures at least one field is set and values are sane.
func (r *UpdateEmployerProfileRequest) Validate() error {
	if !r.HasUpdates() {
		return errNoUpdates()
	}
	if err := nonEmptyText("company_name", r.CompanyName, maxCompanyNameLen); err != nil {
		return err
	}
	if err := optionalText("company_website", r.CompanyWebsite, maxURLLen); err != nil {
		return err
	}
	if err := optionalText("contact_phone", r.ContactPhone, maxPhoneLen); err != nil {
		return err
	}
	if err := optionalText("address", r.Address, maxAddressLen); err != nil {
		return err
	}
	if err := optionalText("description", r.Description, maxDescriptionLen); err != nil {
		return err
	}
	return optionalText("logo_url", r.LogoURL, maxURLLen)
}

// EmployersListOptions filters the admin employer listing.
type EmployersListOptions struct {
	ListOptions
	Q      *string
	Status *VerificationStatus
}

// KYCSubmission is the employer's Aadhaar/PAN submission.
type KYCSubmission struct {
	AadhaarNumber string  `json:"aadhaar_number"`
	PANNumber     string  `json:"pan_number"`
	DocumentURL   *string `json:"document_url,omitempty"`
}

var (
	aadhaarPattern = regexp.MustCompile(`^[2-9][0-9]{11}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// Validate normalises both numbers in place and checks their formats.
func (s *KYCSubmission) Validate() error {
	s.AadhaarNumber = NormalizeAadhaar(s.AadhaarNumber)
	if s.AadhaarNumber == "" {
		return apperrors.ValidationField("aadhaar_number", "aadhaar_number is required and cannot be empty")
	}
	if !aadhaarPattern.MatchString(s.AadhaarNumber) {
		return apperrors.ValidationField("aadhaar_number",
			"aadhaar_number must be 12 digits and cannot start with 0 or 1")
	}
	s.PANNumber = NormalizePAN(s.PANNumber)
	if s.PANNumber == "" {
		return apperrors.ValidationField("pan_number", "pan_number is required and cannot be empty")
	}
	if !panPattern.MatchString(s.PANNumber) {
		return apperrors.ValidationField("pan_number", "pan_number must match the format AAAAA9999A")
	}
	return optionalText("document_url", s.DocumentURL, maxURLLen)
}

// NormalizeAadhaar strips spaces and dashes.
func NormalizeAadhaar(v string) string {
	return strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(strings.TrimSpace(v))
}

// NormalizePAN trims and upper-cases.
func NormalizePAN(v string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(v), " ", ""))
}

// MaskAadhaar returns the last four digits of a normalized Aadhaar number.
func MaskAadhaar(v string) string {
	if len(v) < 4 {
		return ""
	}
	return v[len(v)-4:]
}

// MaskPAN keeps the first two and last two characters, e.g. "AB******4F".
func MaskPAN(v string) string {
	if len(v) < 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:2] + strings.Repeat("*", len(v)-4) + v[len(v)-2:]
}

// RecordKYCRequest is the repository write for a KYC submission.
type RecordKYCRequest struct {
	EmployerID       string
	AadhaarEncrypted string
	PANEncrypted     string
	AadhaarLast4     string
	PANMasked        string
	DocumentURL      *string
	SubmittedAt      time.Time
}

// KYCStatus is what an employer sees about their own verification.
type KYCStatus struct {
	VerificationStatus VerificationStatus `json:"verification_status"`
	AadhaarLast4       *string            `json:"aadhaar_last4,omitempty"`
	PANMasked          *string            `json:"pan_masked,omitempty"`
	KYCDocumentURL     *string            `json:"kyc_document_url,omitempty"`
	KYCSubmittedAt     *time.Time         `json:"kyc_submitted_at,omitempty"`
	ReviewedAt         *time.Time         `json:"reviewed_at,omitempty"`
	RejectionReason    *string            `json:"rejection_reason,omitempty"`
	CanPostJobs        bool               `json:"can_post_jobs"`
}

// KYCStatusOf projects an employer onto its KYC status view.
func KYCStatusOf(e Employer) KYCStatus {
	return KYCStatus{
		VerificationStatus: e.VerificationStatus,
		AadhaarLast4:       e.AadhaarLast4,
		PANMasked:          e.PANMasked,
		KYCDocumentURL:     e.KYCDocumentURL,
		KYCSubmittedAt:     e.KYCSubmittedAt,
		ReviewedAt:         e.ReviewedAt,
		RejectionReason:    e.RejectionReason,
		CanPostJobs:        e.CanPostJobs(),
	}
}

// ReviewRequest carries the admin's optional rejection reason.
type ReviewRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Validate trims the reason and caps its length.
func (r *ReviewRequest) Validate() error {
	return optionalText("reason", r.Reason, maxReasonLen)
}

// SetVerificationRequest is the repository write for an admin review.
type SetVerificationRequest struct {
	EmployerID string
	Status     VerificationStatus
	ReviewerID *string
	Reason     *string
	ReviewedAt time.Time
}

// EmployerReview is the admin detail view, including decrypted KYC numbers.
type EmployerReview struct {
	Employer
	AadhaarNumber *string `json:"aadhaar_number,omitempty"`
	PANNumber     *string `json:"pan_number,omitempty"`
	OwnerEmail    string  `json:"owner_email"`
	OwnerName     string  `json:"owner_name"`
}

// SubscribeRequest selects a plan by code.
type SubscribeRequest struct {
	PlanCode string `json:"plan_code"`
}

// Validate normalises the code.
func (r *SubscribeRequest) Validate() error {
	r.PlanCode = strings.ToLower(strings.TrimSpace(r.PlanCode))
	if r.PlanCode == "" {
		return apperrors.ValidationField("plan_code", "plan_code is required and cannot be empty")
	}
	return nil
}
