package httpx

import (
	"context"
	"net/http"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// CandidatesService defines the candidate profile operations.
type CandidatesService interface {
	GetProfile(ctx context.Context, userID string) (*model.CandidateProfile, error)
	UpdateProfile(
		ctx context.Context,
		userID string,
		req model.UpsertCandidateProfileRequest,
	) (*model.CandidateProfile, error)
}

// SavedJobsService defines the bookmark operations.
type SavedJobsService interface {
	List(ctx context.Context, userID string, opts model.ListOptions) ([]*model.SavedJob, error)
	IDs(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID, jobID string) error
	Remove(ctx context.Context, userID, jobID string) error
}

// JobAlertsService defines the saved-search alert operations.
type JobAlertsService interface {
	List(ctx context.Context, userID string) ([]*model.JobAlert, error)
	Create(ctx context.Context, userID string, req *model.CreateJobAlertRequest) (*model.JobAlert, error)
	Update(ctx context.Context, userID, id string, req model.UpdateJobAlertRequest) (*model.JobAlert, error)
	Delete(ctx context.Context, userID, id string) error
}

// CandidateHandlers provides HTTP handlers for the candidate's own profile,
// bookmarks and job alerts.
type CandidateHandlers struct {
	Profiles CandidatesService
	Saved    SavedJobsService
	Alerts   JobAlertsService
}

// GetProfile returns the caller's profile, empty when none was saved yet.
// GET /api/candidate/profile.
func (h *CandidateHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.GetProfile(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "get_profile", err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// UpdateProfile upserts the caller's profile.
// PUT /api/candidate/profile.
func (h *CandidateHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertCandidateProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	p, err := h.Profiles.UpdateProfile(r.Context(), sessionOf(r).UserID, req)
	if err != nil {
		WriteAppError(w, "update_profile", err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// ListSaved returns bookmarked jobs with their save time.
// GET /api/candidate/saved-jobs.
func (h *CandidateHandlers) ListSaved(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	jobs, err := h.Saved.List(r.Context(), sessionOf(r).UserID, opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "jobs", jobs, opts.Limit, opts.Offset)
}

// SavedIDs returns the bookmarked job IDs only.
// GET /api/candidate/saved-jobs/ids.
func (h *CandidateHandlers) SavedIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Saved.IDs(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writeItems(w, "ids", ids)
}

// Save bookmarks a job. Saving twice is not an error.
// PUT /api/candidate/saved-jobs/{jobID}.
func (h *CandidateHandlers) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.Saved.Save(r.Context(), sessionOf(r).UserID, r.PathValue("jobID")); err != nil {
		WriteAppError(w, "save", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// Unsave removes a bookmark. Removing a missing bookmark is not an error.
// DELETE /api/candidate/saved-jobs/{jobID}.
func (h *CandidateHandlers) Unsave(w http.ResponseWriter, r *http.Request) {
	if err := h.Saved.Remove(r.Context(), sessionOf(r).UserID, r.PathValue("jobID")); err != nil {
		WriteAppError(w, "remove", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"saved": false})
}

// ListAlerts returns the caller's job alerts.
// GET /api/candidate/job-alerts.
func (h *CandidateHandlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Alerts.List(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writeItems(w, "job_alerts", alerts)
}

// CreateAlert stores a new job alert.
// POST /api/candidate/job-alerts.
func (h *CandidateHandlers) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobAlertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	alert, err := h.Alerts.Create(r.Context(), sessionOf(r).UserID, &req)
	if err != nil {
		WriteAppError(w, "create", err)
		return
	}
	WriteJSON(w, http.StatusCreated, alert)
}

// UpdateAlert edits one of the caller's job alerts.
// PUT /api/candidate/job-alerts/{id}.
func (h *CandidateHandlers) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateJobAlertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	alert, err := h.Alerts.Update(r.Context(), sessionOf(r).UserID, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, "update", err)
		return
	}
	WriteJSON(w, http.StatusOK, alert)
}

// DeleteAlert removes one of the caller's job alerts.
// DELETE /api/candidate/job-alerts/{id}.
func (h *CandidateHandlers) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.Alerts.Delete(r.Context(), sessionOf(r).UserID, r.PathValue("id")); err != nil {
		WriteAppError(w, "delete", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
