package model

import (
	"strings"
	"time"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxJobTitleLen       = 200
	maxSpecializationLen = 120
	maxOpenings          = 1000
)

// EmploymentType classifies a job posting.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentLocum      EmploymentType = "locum"
)

// Valid reports whether the employment type is supported.
func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentLocum:
		return true
	default:
		return false
	}
}

// ParseEmploymentType normalizes an employment type string and reports whether it is supported.
func ParseEmploymentType(value string) (EmploymentType, bool) {
	t := EmploymentType(strings.ToLower(strings.TrimSpace(value)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// JobStatus is the publication state of a job.
type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether the job status is supported.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusOpen, JobStatusClosed:
		return true
	default:
		return false
	}
}

// ParseJobStatus normalizes a job status string and reports whether it is supported.
func ParseJobStatus(value string) (JobStatus, bool) {
	s := JobStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Job is a posting by an employer. CompanyName is joined from the employer.
type Job struct {
	ID             string         `json:"id"                       db:"id"`
	EmployerID     string         `json:"employer_id"              db:"employer_id"`
	CompanyName    string         `json:"company_name"             db:"company_name"`
	Title          string         `json:"title"                    db:"title"`
	Description    string         `json:"description"              db:"description"`
	Specialization *string        `json:"specialization,omitempty" db:"specialization"`
	Location       string         `json:"location"                 db:"location"`
	EmploymentType EmploymentType `json:"employment_type"          db:"employment_type"`
	ExperienceMin  int            `json:"experience_min"           db:"experience_min"`
	ExperienceMax  *int           `json:"experience_max,omitempty" db:"experience_max"`
	SalaryMin      *int64         `json:"salary_min,omitempty"     db:"salary_min"`
	SalaryMax      *int64         `json:"salary_max,omitempty"     db:"salary_max"`
	Qualifications *string        `json:"qualifications,omitempty" db:"qualifications"`
	Skills         []string       `json:"skills"                   db:"skills"`
	Openings       int            `json:"openings"                 db:"openings"`
	Status         JobStatus      `json:"status"                   db:"status"`
	Deadline       *time.Time     `json:"deadline,omitempty"       db:"deadline"`
	ViewCount      int64          `json:"view_count"               db:"view_count"`
	CreatedAt      time.Time      `json:"created_at"               db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"               db:"updated_at"`
}

// IsOpenAt reports whether applications are accepted at now.
func (j Job) IsOpenAt(now time.Time) bool {
	if j.Status != JobStatusOpen {
		return false
	}
	return j.Deadline == nil || !endOfDay(*j.Deadline).Before(now)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// CreateJobRequest represents parameters to create a Job.
type CreateJobRequest struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Specialization *string        `json:"specialization,omitempty"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employment_type"`
	ExperienceMin  int            `json:"experience_min"`
	ExperienceMax  *int           `json:"experience_max,omitempty"`
	SalaryMin      *int64         `json:"salary_min,omitempty"`
	SalaryMax      *int64         `json:"salary_max,omitempty"`
	Qualifications *string        `json:"qualifications,omitempty"`
	Skills         []string       `json:"skills"`
	Openings       int            `json:"openings"`
	Status         JobStatus      `json:"status,omitempty"`
	Deadline       *Date          `json:"deadline,omitempty"`

	// EmployerID is set by the service from the caller's employer record.
	EmployerID string `json:"-"`
}

// Validate validates CreateJobRequest against the clock now.
func (r *CreateJobRequest) Validate(now time.Time) error {
	if err := requireText("title", &r.Title, maxJobTitleLen); err != nil {
		return err
	}
	if err := requireText("description", &r.Description, maxDescriptionLen); err != nil {
		return err
	}
	if err := requireText("location", &r.Location, maxLocationLen); err != nil {
		return err
	}
	if err := optionalText("specialization", r.Specialization, maxSpecializationLen); err != nil {
		return err
	}
	if err := optionalText("qualifications", r.Qualifications, maxQualificationLen); err != nil {
		return err
	}
	r.EmploymentType = EmploymentType(strings.ToLower(strings.TrimSpace(string(r.EmploymentType))))
	if r.EmploymentType == "" {
		r.EmploymentType = EmploymentFullTime
	}
	if !r.EmploymentType.Valid() {
		return errEmploymentType()
	}
	r.Status = JobStatus(strings.ToLower(strings.TrimSpace(string(r.Status))))
	if r.Status == "" {
		r.Status = JobStatusOpen
	}
	if r.Status == JobStatusClosed || !r.Status.Valid() {
		return apperrors.ValidationField("status", "status must be one of: draft, open")
	}
	if r.Openings == 0 {
		r.Openings = 1
	}
	if err := validateRanges(r.ExperienceMin, r.ExperienceMax, r.SalaryMin, r.SalaryMax, r.Openings); err != nil {
		return err
	}
	if r.Deadline != nil && endOfDay(r.Deadline.Time).Before(now) {
		return apperrors.ValidationField("deadline", "deadline cannot be in the past")
	}
	skills, err := cleanList("skills", r.Skills, maxSkills, maxSkillLen)
	if err != nil {
		return err
	}
	r.Skills = skills
	return nil
}

// UpdateJobRequest represents parameters to update a Job.
type UpdateJobRequest struct {
	Title          *string         `json:"title,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Specialization *string         `json:"specialization,omitempty"`
	Location       *string         `json:"location,omitempty"`
	EmploymentType *EmploymentType `json:"employment_type,omitempty"`
	ExperienceMin  *int            `json:"experience_min,omitempty"`
	ExperienceMax  *int            `json:"experience_max,omitempty"`
	SalaryMin      *int64          `json:"salary_min,omitempty"`
	SalaryMax      *int64          `json:"salary_max,omitempty"`
	Qualifications *string         `json:"qualifications,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Openings       *int            `json:"openings,omitempty"`
	Status         *JobStatus      `json:"status,omitempty"`
	Deadline       *Date           `json:"deadline,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateJobRequest.
func (r *UpdateJobRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.Specialization != nil || r.Location != nil ||
		r.EmploymentType != nil || r.ExperienceMin != nil || r.ExperienceMax != nil || r.SalaryMin != nil ||
		r.SalaryMax != nil || r.Qualifications != nil || r.Skills != nil || r.Openings != nil ||
		r.Status != nil || r.Deadline != nil
}

// Validate checks field formats. Cross-field ranges are checked by ValidateMerged
// once the current row is known.
func (r *UpdateJobRequest) Validate() error {
	if !r.HasUpdates() {
		return errNoUpdates()
	}
	if err := nonEmptyText("title", r.Title, maxJobTitleLen); err != nil {
		return err
	}
	if err := nonEmptyText("description", r.Description, maxDescriptionLen); err != nil {
		return err
	}
	if err := nonEmptyText("location", r.Location, maxLocationLen); err != nil {
		return err
	}
	if err := optionalText("specialization", r.Specialization, maxSpecializationLen); err != nil {
		return err
	}
	if err := optionalText("qualifications", r.Qualifications, maxQualificationLen); err != nil {
		return err
	}
	if r.EmploymentType != nil {
		t, ok := ParseEmploymentType(string(*r.EmploymentType))
		if !ok {
			return errEmploymentType()
		}
		r.EmploymentType = &t
	}
	if r.Status != nil {
		s, ok := ParseJobStatus(string(*r.Status))
		if !ok {
			return apperrors.ValidationField("status", "status must be one of: draft, open, closed")
		}
		r.Status = &s
	}
	if r.Skills != nil {
		skills, err := cleanList("skills", r.Skills, maxSkills, maxSkillLen)
		if err != nil {
			return err
		}
		r.Skills = skills
	}
	return nil
}

// ValidateMerged checks numeric ranges after applying r on top of current.
func (r *UpdateJobRequest) ValidateMerged(current Job) error {
	expMin := current.ExperienceMin
	if r.ExperienceMin != nil {
		expMin = *r.ExperienceMin
	}
	expMax := current.ExperienceMax
	if r.ExperienceMax != nil {
		expMax = r.ExperienceMax
	}
	salMin := current.SalaryMin
	if r.SalaryMin != nil {
		salMin = r.SalaryMin
	}
	salMax := current.SalaryMax
	if r.SalaryMax != nil {
		salMax = r.SalaryMax
	}
	openings := current.Openings
	if r.Openings != nil {
		openings = *r.Openings
	}
	return validateRanges(expMin, expMax, salMin, salMax, openings)
}

func validateRanges(expMin int, expMax *int, salMin, salMax *int64, openings int) error {
	if expMin < 0 || expMin > maxExperienceYears {
		return apperrors.ValidationField("experience_min", "experience_min must be between 0 and 70")
	}
	if expMax != nil && (*expMax < expMin || *expMax > maxExperienceYears) {
		return apperrors.ValidationField("experience_max",
			"experience_max cannot be less than experience_min or exceed 70")
	}
	if salMin != nil && *salMin < 0 {
		return apperrors.ValidationField("salary_min", "salary_min cannot be negative")
	}
	if salMax != nil && *salMax < 0 {
		return apperrors.ValidationField("salary_max", "salary_max cannot be negative")
	}
	if salMin != nil && salMax != nil && *salMax < *salMin {
		return apperrors.ValidationField("salary_max", "salary_max cannot be less than salary_min")
	}
	if openings < 1 || openings > maxOpenings {
		return apperrors.ValidationField("openings", "openings must be between 1 and 1000")
	}
	return nil
}

func errEmploymentType() error {
	return apperrors.ValidationField("employment_type",
		"employment_type must be one of: full_time, part_time, contract, internship, locum")
}

// JobSearchOptions controls the public job search.
// Notes:
// - Sort supports: "created_at", "salary_max", "deadline", "title".
// - Q matches title, description and skills (ILIKE / array contains).
// - Experience keeps jobs whose range includes the given number of years.
type JobSearchOptions struct {
	ListOptions
	Q              *string
	Location       *string
	Specialization *string
	EmploymentType *EmploymentType
	Experience     *int
	SalaryMin      *int64
	EmployerID     *string
}

// JobsListOptions filters employer and admin job listings.
type JobsListOptions struct {
	ListOptions
	EmployerID *string
	Status     *JobStatus
	Q          *string
}

// JobStatusRequest is the admin status patch.
type JobStatusRequest struct {
	Status JobStatus `json:"status"`
}

// Validate normalises the status.
func (r *JobStatusRequest) Validate() error {
	s, ok := ParseJobStatus(string(r.Status))
	if !ok {
		return apperrors.ValidationField("status", "status must be one of: draft, open, closed")
	}
	r.Status = s
	return nil
}
