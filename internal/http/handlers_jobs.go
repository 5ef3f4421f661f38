package httpx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/service"
)

// JobsService defines the job operations exposed over HTTP.
type JobsService interface {
	Search(ctx context.Context, opts model.JobSearchOptions) ([]*model.Job, error)
	Get(ctx context.Context, id string, viewer service.Viewer) (*model.Job, error)
	CreateForEmployer(ctx context.Context, userID string, req *model.CreateJobRequest) (*model.Job, error)
	ListForEmployer(ctx context.Context, userID string, opts model.JobsListOptions) ([]*model.Job, error)
	GetForEmployer(ctx context.Context, userID, id string) (*model.Job, error)
	UpdateForEmployer(ctx context.Context, userID, id string, req model.UpdateJobRequest) (*model.Job, error)
	DeleteForEmployer(ctx context.Context, userID, id string) error
	ListAll(ctx context.Context, opts model.JobsListOptions) ([]*model.Job, error)
	SetStatus(ctx context.Context, id string, req model.JobStatusRequest) (*model.Job, error)
	Delete(ctx context.Context, id string) error
}

// JobHandlers provides HTTP handlers for public search, employer job
// management and admin moderation.
type JobHandlers struct {
	Svc JobsService
}

// Search lists publicly visible jobs.
// GET /api/jobs.
func (h *JobHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.JobSearchOptions{
		ListOptions:    listOptions(r),
		Q:              queryString(q, "q"),
		Location:       queryString(q, "location"),
		Specialization: queryString(q, "specialization"),
		EmployerID:     queryString(q, "employer_id"),
	}

	if raw := queryString(q, "employment_type"); raw != nil {
		et, ok := model.ParseEmploymentType(*raw)
		if !ok {
			writeBadRequest(w, "employment_type",
				"employment_type must be one of: full_time, part_time, contract, internship, locum")
			return
		}
		opts.EmploymentType = &et
	}
	exp, ok := queryInt64(q, "experience")
	if !ok {
		writeBadRequest(w, "experience", "experience must be a non-negative integer")
		return
	}
	if exp != nil {
		years := int(*exp)
		opts.Experience = &years
	}
	if opts.SalaryMin, ok = queryInt64(q, "salary_min"); !ok {
		writeBadRequest(w, "salary_min", "salary_min must be a non-negative integer")
		return
	}

	jobs, err := h.Svc.Search(r.Context(), opts)
	if err != nil {
		WriteAppError(w, "search", err)
		return
	}
	writePage(w, "jobs", jobs, opts.Limit, opts.Offset)
}

// Get returns one job. Owners and admins may see jobs hidden from the public.
// GET /api/jobs/{id}.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	viewer := service.Viewer{Session: sessionOf(r), Key: clientKey(r)}
	job, err := h.Svc.Get(r.Context(), r.PathValue("id"), viewer)
	if err != nil {
		WriteAppError(w, "get", err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Create posts a job for the caller's employer.
// POST /api/employer/jobs.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	job, err := h.Svc.CreateForEmployer(r.Context(), sessionOf(r).UserID, &req)
	if err != nil {
		WriteAppError(w, "create", err)
		return
	}
	WriteJSON(w, http.StatusCreated, job)
}

// ListMine lists the caller's jobs.
// GET /api/employer/jobs?status=.
func (h *JobHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	opts, ok := jobsListOptions(w, r)
	if !ok {
		return
	}
	opts.EmployerID = nil
	jobs, err := h.Svc.ListForEmployer(r.Context(), sessionOf(r).UserID, opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "jobs", jobs, opts.Limit, opts.Offset)
}

// GetMine returns one of the caller's jobs.
// GET /api/employer/jobs/{id}.
func (h *JobHandlers) GetMine(w http.ResponseWriter, r *http.Request) {
	job, err := h.Svc.GetForEmployer(r.Context(), sessionOf(r).UserID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, "get", err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// UpdateMine applies a partial edit to one of the caller's jobs.
// PUT /api/employer/jobs/{id}.
func (h *JobHandlers) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	job, err := h.Svc.UpdateForEmployer(r.Context(), sessionOf(r).UserID, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, "update", err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// DeleteMine removes one of the caller's jobs.
// DELETE /api/employer/jobs/{id}.
func (h *JobHandlers) DeleteMine(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteForEmployer(r.Context(), sessionOf(r).UserID, r.PathValue("id")); err != nil {
		WriteAppError(w, "delete", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AdminList lists every job.
// GET /api/admin/jobs?status=&q=&employer_id=.
func (h *JobHandlers) AdminList(w http.ResponseWriter, r *http.Request) {
	opts, ok := jobsListOptions(w, r)
	if !ok {
		return
	}
	jobs, err := h.Svc.ListAll(r.Context(), opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "jobs", jobs, opts.Limit, opts.Offset)
}

// AdminSetStatus moves a job to any status.
// PATCH /api/admin/jobs/{id}/status.
func (h *JobHandlers) AdminSetStatus(w http.ResponseWriter, r *http.Request) {
	var req model.JobStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	job, err := h.Svc.SetStatus(r.Context(), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, "set_status", err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// AdminDelete removes any job.
// DELETE /api/admin/jobs/{id}.
func (h *JobHandlers) AdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, "delete", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func jobsListOptions(w http.ResponseWriter, r *http.Request) (model.JobsListOptions, bool) {
	q := r.URL.Query()
	opts := model.JobsListOptions{
		ListOptions: listOptions(r),
		EmployerID:  queryString(q, "employer_id"),
		Q:           queryString(q, "q"),
	}
	status, ok := jobStatusQuery(q)
	if !ok {
		writeBadRequest(w, "status", "status must be one of: draft, open, closed")
		return opts, false
	}
	opts.Status = status
	return opts, true
}

func jobStatusQuery(q url.Values) (*model.JobStatus, bool) {
	raw := queryString(q, "status")
	if raw == nil {
		return nil, true
	}
	s, ok := model.ParseJobStatus(*raw)
	if !ok {
		return nil, false
	}
	return &s, true
}
