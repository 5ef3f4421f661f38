package httpx

import (
	"context"
	"net/http"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// PlansService defines the subscription plan catalogue operations.
type PlansService interface {
	ListActive(ctx context.Context) ([]*model.SubscriptionPlan, error)
	ListAll(ctx context.Context) ([]*model.SubscriptionPlan, error)
	Create(ctx context.Context, req *model.CreatePlanRequest) (*model.SubscriptionPlan, error)
	Update(ctx context.Context, id string, req model.UpdatePlanRequest) (*model.SubscriptionPlan, error)
	Delete(ctx context.Context, id string) error
}

// PlanHandlers provides HTTP handlers for subscription plans.
type PlanHandlers struct {
	Svc PlansService
}

// ListActive returns the public plan catalogue.
// GET /api/plans.
func (h *PlanHandlers) ListActive(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Svc.ListActive(r.Context())
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writeItems(w, "plans", plans)
}

// AdminList returns every plan including inactive ones.
// GET /api/admin/plans.
func (h *PlanHandlers) AdminList(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Svc.ListAll(r.Context())
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writeItems(w, "plans", plans)
}

// Create adds a plan.
// POST /api/admin/plans.
func (h *PlanHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePlanRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	plan, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, "create", err)
		return
	}
	WriteJSON(w, http.StatusCreated, plan)
}

// Update edits a plan.
// PUT /api/admin/plans/{id}.
func (h *PlanHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePlanRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	plan, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, "update", err)
		return
	}
	WriteJSON(w, http.StatusOK, plan)
}

// Delete removes a plan.
// DELETE /api/admin/plans/{id}.
func (h *PlanHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, "delete", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
