package model

import (
	"strings"
	"time"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxCoverLetterLen = 5000
	maxNotesLen       = 2000
)

// ApplicationStatus is the hiring stage of an application.
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationInterview   ApplicationStatus = "interview"
	ApplicationOffered     ApplicationStatus = "offered"
	ApplicationHired       ApplicationStatus = "hired"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

// AllApplicationStatuses lists statuses in pipeline order.
var AllApplicationStatuses = []ApplicationStatus{
	ApplicationSubmitted, ApplicationReviewed, ApplicationShortlisted, ApplicationInterview,
	ApplicationOffered, ApplicationHired, ApplicationRejected, ApplicationWithdrawn,
}

// employerTransitions is the set of moves an employer may make from each state.
var employerTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationSubmitted:   {ApplicationReviewed, ApplicationShortlisted, ApplicationRejected},
	ApplicationReviewed:    {ApplicationShortlisted, ApplicationInterview, ApplicationRejected},
	ApplicationShortlisted: {ApplicationInterview, ApplicationRejected},
	ApplicationInterview:   {ApplicationOffered, ApplicationRejected},
	ApplicationOffered:     {ApplicationHired, ApplicationRejected},
}

// Valid reports whether the status is supported.
func (s ApplicationStatus) Valid() bool {
	for _, v := range AllApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationHired || s == ApplicationRejected || s == ApplicationWithdrawn
}

// CanEmployerMoveTo reports whether an employer may move an application from s to next.
func (s ApplicationStatus) CanEmployerMoveTo(next ApplicationStatus) bool {
	for _, v := range employerTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// CanWithdraw reports whether the candidate may still withdraw.
func (s ApplicationStatus) CanWithdraw() bool {
	return s.Valid() && !s.IsTerminal()
}

// ParseApplicationStatus normalizes a status string and reports whether it is supported.
func ParseApplicationStatus(value string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Application is a candidate's application to a job. The trailing
// fields are joined for listings and are read-only.
type Application struct {
	ID             string            `json:"id"                       db:"id"`
	JobID          string            `json:"job_id"                   db:"job_id"`
	CandidateID    string            `json:"candidate_id"             db:"candidate_id"`
	CoverLetter    *string           `json:"cover_letter,omitempty"   db:"cover_letter"`
	ResumeURL      *string           `json:"resume_url,omitempty"     db:"resume_url"`
	Status         ApplicationStatus `json:"status"                   db:"status"`
	EmployerNotes  *string           `json:"employer_notes,omitempty" db:"employer_notes"`
	CreatedAt      time.Time         `json:"created_at"               db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"               db:"updated_at"`
	JobTitle       string            `json:"job_title"                db:"job_title"`
	EmployerID     string            `json:"employer_id"              db:"employer_id"`
	CompanyName    string            `json:"company_name"             db:"company_name"`
	CandidateName  string            `json:"candidate_name"           db:"candidate_name"`
	CandidateEmail string            `json:"candidate_email"          db:"candidate_email"`
}

// ApplyRequest is the candidate's application payload.
type ApplyRequest struct {
	CoverLetter *string `json:"cover_letter,omitempty"`
	ResumeURL   *string `json:"resume_url,omitempty"`
}

// Validate trims optional fields and caps their length.
func (r *ApplyRequest) Validate() error {
	if err := optionalText("cover_letter", r.CoverLetter, maxCoverLetterLen); err != nil {
		return err
	}
	return optionalText("resume_url", r.ResumeURL, maxURLLen)
}

// CreateApplicationRequest is the repository insert for an application.
type CreateApplicationRequest struct {
	JobID       string
	CandidateID string
	CoverLetter *string
	ResumeURL   *string
}

// ApplicationStatusRequest is the employer's status change.
type ApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status"`
	Notes  *string           `json:"notes,omitempty"`
}

// Validate normalises the status and notes. Withdrawal is reserved to candidates.
func (r *ApplicationStatusRequest) Validate() error {
	s, ok := ParseApplicationStatus(string(r.Status))
	if !ok || s == ApplicationWithdrawn || s == ApplicationSubmitted {
		return apperrors.ValidationField("status",
			"status must be one of: reviewed, shortlisted, interview, offered, hired, rejected")
	}
	r.Status = s
	return optionalText("notes", r.Notes, maxNotesLen)
}

// UpdateApplicationStatusRequest is the repository write for a transition.
// From guards against concurrent changes.
type UpdateApplicationStatusRequest struct {
	ID    string
	From  ApplicationStatus
	To    ApplicationStatus
	Notes *string
}

// ApplicationsListOptions filters application listings.
type ApplicationsListOptions struct {
	ListOptions
	JobID       *string
	CandidateID *string
	EmployerID  *string
	Status      *ApplicationStatus
}
