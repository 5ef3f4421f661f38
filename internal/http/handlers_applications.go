package httpx

import (
	"context"
	"net/http"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// ApplicationsService defines the application operations exposed over HTTP.
type ApplicationsService interface {
	Apply(ctx context.Context, candidateID, jobID string, req model.ApplyRequest) (*model.Application, error)
	ListForCandidate(
		ctx context.Context,
		candidateID string,
		opts model.ApplicationsListOptions,
	) ([]*model.Application, error)
	Withdraw(ctx context.Context, candidateID, id string) (*model.Application, error)
	ListForJob(ctx context.Context, userID, jobID string, opts model.ApplicationsListOptions) ([]*model.Application, error)
	UpdateStatus(
		ctx context.Context,
		userID, id string,
		req model.ApplicationStatusRequest,
	) (*model.Application, error)
}

// ApplicationHandlers provides HTTP handlers for job applications.
type ApplicationHandlers struct {
	Svc ApplicationsService
}

// Apply submits the caller's application to a job.
// POST /api/jobs/{id}/apply.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	var req model.ApplyRequest
	if r.ContentLength != 0 && !DecodeJSON(w, r, &req) {
		return
	}
	app, err := h.Svc.Apply(r.Context(), sessionOf(r).UserID, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, "apply", err)
		return
	}
	WriteJSON(w, http.StatusCreated, app)
}

// ListMine lists the caller's applications.
// GET /api/candidate/applications?status=.
func (h *ApplicationHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	opts, ok := applicationsListOptions(w, r)
	if !ok {
		return
	}
	apps, err := h.Svc.ListForCandidate(r.Context(), sessionOf(r).UserID, opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "applications", apps, opts.Limit, opts.Offset)
}

// Withdraw pulls the caller out of one of their applications.
// POST /api/candidate/applications/{id}/withdraw.
func (h *ApplicationHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	app, err := h.Svc.Withdraw(r.Context(), sessionOf(r).UserID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, "withdraw", err)
		return
	}
	WriteJSON(w, http.StatusOK, app)
}

// ListForJob lists applications to one of the caller's jobs.
// GET /api/employer/jobs/{id}/applications?status=.
func (h *ApplicationHandlers) ListForJob(w http.ResponseWriter, r *http.Request) {
	opts, ok := applicationsListOptions(w, r)
	if !ok {
		return
	}
	apps, err := h.Svc.ListForJob(r.Context(), sessionOf(r).UserID, r.PathValue("id"), opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "applications", apps, opts.Limit, opts.Offset)
}

// UpdateStatus moves an application along the employer pipeline.
// PATCH /api/employer/applications/{id}/status.
func (h *ApplicationHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.ApplicationStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	app, err := h.Svc.UpdateStatus(r.Context(), sessionOf(r).UserID, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, "update_status", err)
		return
	}
	WriteJSON(w, http.StatusOK, app)
}

func applicationsListOptions(w http.ResponseWriter, r *http.Request) (model.ApplicationsListOptions, bool) {
	opts := model.ApplicationsListOptions{ListOptions: listOptions(r)}
	if raw := queryString(r.URL.Query(), "status"); raw != nil {
		s, ok := model.ParseApplicationStatus(*raw)
		if !ok {
			writeBadRequest(w, "status", "status is not a valid application status")
			return opts, false
		}
		opts.Status = &s
	}
	return opts, true
}
