package model

import (
	"time"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	maxHeadlineLen      = 200
	maxLocationLen      = 200
	maxQualificationLen = 500
	maxSkills           = 50
	maxSkillLen         = 60
	maxExperienceYears  = 70
)

// CandidateProfile holds the candidate's job-seeking details.
// ResumeText is the extracted text of the uploaded resume PDF.
type CandidateProfile struct {
	UserID          string    `json:"user_id"               db:"user_id"`
	Headline        *string   `json:"headline,omitempty"    db:"headline"`
	Location        *string   `json:"location,omitempty"    db:"location"`
	Qualification   *string   `json:"qualification,omitempty" db:"qualification"`
	ExperienceYears int       `json:"experience_years"      db:"experience_years"`
	Skills          []string  `json:"skills"                db:"skills"`
	ResumeURL       *string   `json:"resume_url,omitempty"  db:"resume_url"`
	ResumeText      *string   `json:"-"                     db:"resume_text"`
	UpdatedAt       time.Time `json:"updated_at"            db:"updated_at"`
}

// UpsertCandidateProfileRequest replaces the editable profile fields.
type UpsertCandidateProfileRequest struct {
	Headline        *string  `json:"headline,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Qualification   *string  `json:"qualification,omitempty"`
	ExperienceYears int      `json:"experience_years"`
	Skills          []string `json:"skills"`
	ResumeURL       *string  `json:"resume_url,omitempty"`
}

// Validate normalises text and the skills list.
func (r *UpsertCandidateProfileRequest) Validate() error {
	if err := optionalText("headline", r.Headline, maxHeadlineLen); err != nil {
		return err
	}
	if err := optionalText("location", r.Location, maxLocationLen); err != nil {
		return err
	}
	if err := optionalText("qualification", r.Qualification, maxQualificationLen); err != nil {
		return err
	}
	if err := optionalText("resume_url", r.ResumeURL, maxURLLen); err != nil {
		return err
	}
	if r.ExperienceYears < 0 || r.ExperienceYears > maxExperienceYears {
		return apperrors.ValidationField("experience_years", "experience_years must be between 0 and 70")
	}
	skills, err := cleanList("skills", r.Skills, maxSkills, maxSkillLen)
	if err != nil {
		return err
	}
	r.Skills = skills
	return nil
}
