//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func validJobRequest() *CreateJobRequest {
	return &CreateJobRequest{
		Title:       "Staff Nurse",
		Description: "Night shifts in the ICU",
		Location:    "Pune",
	}
}

func TestCreateJobRequest_Validate_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	req := validJobRequest()
	req.Title = "  Staff Nurse  "
	req.Skills = []string{" BLS ", "bls", "", "ACLS"}

	require.NoError(t, req.Validate(now))
	assert.Equal(t, "Staff Nurse", req.Title)
	assert.Equal(t, 1, req.Openings)
	assert.Equal(t, EmploymentFullTime, req.EmploymentType)
	assert.Equal(t, JobStatusOpen, req.Status)
	assert.Equal(t, []string{"BLS", "ACLS"}, req.Skills)
}

func TestCreateJobRequest_Validate_Rejections(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	yesterday := NewDate(now.AddDate(0, 0, -1))
	today := NewDate(now)

	tests := []struct {
		name      string
		mutate    func(r *CreateJobRequest)
		wantField string
	}{
		{name: "title at limit", mutate: func(r *CreateJobRequest) { r.Title = strings.Repeat("a", 200) }},
		{name: "title over limit", mutate: func(r *CreateJobRequest) { r.Title = strings.Repeat("a", 201) }, wantField: "title"},
		{name: "blank title", mutate: func(r *CreateJobRequest) { r.Title = "   " }, wantField: "title"},
		{name: "negative experience", mutate: func(r *CreateJobRequest) { r.ExperienceMin = -1 }, wantField: "experience_min"},
		{
			name: "experience max below min",
			mutate: func(r *CreateJobRequest) {
				r.ExperienceMin = 5
				r.ExperienceMax = intPtr(2)
			},
			wantField: "experience_max",
		},
		{name: "negative salary min", mutate: func(r *CreateJobRequest) { r.SalaryMin = int64Ptr(-1) }, wantField: "salary_min"},
		{name: "negative salary max", mutate: func(r *CreateJobRequest) { r.SalaryMax = int64Ptr(-5) }, wantField: "salary_max"},
		{
			name: "salary min above max",
			mutate: func(r *CreateJobRequest) {
				r.SalaryMin = int64Ptr(90_000)
				r.SalaryMax = int64Ptr(60_000)
			},
			wantField: "salary_max",
		},
		{name: "negative openings", mutate: func(r *CreateJobRequest) { r.Openings = -2 }, wantField: "openings"},
		{name: "past deadline", mutate: func(r *CreateJobRequest) { r.Deadline = &yesterday }, wantField: "deadline"},
		{name: "deadline today", mutate: func(r *CreateJobRequest) { r.Deadline = &today }},
		{name: "closed on create", mutate: func(r *CreateJobRequest) { r.Status = JobStatusClosed }, wantField: "status"},
		{name: "unknown employment type", mutate: func(r *CreateJobRequest) { r.EmploymentType = "gig" }, wantField: "employment_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validJobRequest()
			tt.mutate(req)
			err := req.Validate(now)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}
}

func TestCreateJobRequest_DeadlineFromDateInput(t *testing.T) {
	var req CreateJobRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Locum","deadline":"2026-12-31"}`), &req))
	require.NotNil(t, req.Deadline)
	assert.Equal(t, "2026-12-31", req.Deadline.String())

	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2026-12-31T18:30:00Z"}`), &req))
	assert.Equal(t, "2026-12-31", req.Deadline.String())

	err := json.Unmarshal([]byte(`{"deadline":"31/12/2026"}`), &req)
	require.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestDate_MarshalJSON(t *testing.T) {
	d := NewDate(time.Date(2026, 7, 4, 22, 15, 0, 0, time.UTC))
	b, err := json.Marshal(struct {
		Deadline *Date `json:"deadline,omitempty"`
	}{&d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"deadline":"2026-07-04"}`, string(b))

	var empty struct {
		Deadline *Date `json:"deadline"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":null}`), &empty))
	assert.Nil(t, empty.Deadline)
}

func TestJob_IsOpenAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	assert.True(t, Job{Status: JobStatusOpen}.IsOpenAt(now))
	assert.True(t, Job{Status: JobStatusOpen, Deadline: &today}.IsOpenAt(now))
	assert.False(t, Job{Status: JobStatusOpen, Deadline: &yesterday}.IsOpenAt(now))
	assert.False(t, Job{Status: JobStatusDraft}.IsOpenAt(now))
}
