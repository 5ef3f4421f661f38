package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// UsersService defines the admin user management operations.
type UsersService interface {
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// StatsService defines the dashboard counters.
type StatsService interface {
	Admin(ctx context.Context) (*model.AdminStats, error)
	Employer(ctx context.Context, userID string) (*model.EmployerDashboard, error)
	Candidate(ctx context.Context, userID string) (*model.CandidateDashboard, error)
}

// UserHandlers provides HTTP handlers for admin user management.
type UserHandlers struct {
	Svc UsersService
}

// List returns users filtered by role, text and active flag.
// GET /api/admin/users?role=&q=&active=.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.UsersListOptions{
		ListOptions: listOptions(r),
		Q:           queryString(q, "q"),
		IsActive:    queryBool(q, "active"),
	}
	if raw := queryString(q, "role"); raw != nil {
		role, err := domainauth.ParseRole(*raw)
		if err != nil {
			writeBadRequest(w, "role", err.Error())
			return
		}
		opts.Role = &role
	}
	users, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "users", users, opts.Limit, opts.Offset)
}

// Get returns one user.
// GET /api/admin/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, "get", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Update changes a user's role or active flag.
// PATCH /api/admin/users/{id}.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, "update", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Delete removes a user and everything they own.
// DELETE /api/admin/users/{id}.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, "delete", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// StatsHandlers provides the admin, employer and candidate dashboards.
type StatsHandlers struct {
	Svc StatsService
}

// Admin returns site-wide counters.
// GET /api/admin/stats.
func (h *StatsHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Admin(r.Context())
	if err != nil {
		WriteAppError(w, "stats", err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Employer returns the caller's employer dashboard.
// GET /api/employer/dashboard.
func (h *StatsHandlers) Employer(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Svc.Employer(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "dashboard", err)
		return
	}
	WriteJSON(w, http.StatusOK, dash)
}

// Candidate returns the caller's candidate dashboard.
// GET /api/candidate/dashboard.
func (h *StatsHandlers) Candidate(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Svc.Candidate(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "dashboard", err)
		return
	}
	WriteJSON(w, http.StatusOK, dash)
}
