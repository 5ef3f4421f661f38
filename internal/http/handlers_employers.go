package httpx

import (
	"context"
	"net/http"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// EmployersService defines the employer profile, KYC and review operations.
type EmployersService interface {
	GetProfile(ctx context.Context, userID string) (*model.Employer, error)
	UpdateProfile(ctx context.Context, userID string, req model.UpdateEmployerProfileRequest) (*model.Employer, error)
	SubmitKYC(ctx context.Context, userID string, sub model.KYCSubmission) (*model.KYCStatus, error)
	KYCStatus(ctx context.Context, userID string) (*model.KYCStatus, error)
	List(ctx context.Context, opts model.EmployersListOptions) ([]*model.Employer, error)
	Review(ctx context.Context, employerID string) (*model.EmployerReview, error)
	Approve(ctx context.Context, employerID, reviewerID string) (*model.Employer, error)
	Reject(ctx context.Context, employerID, reviewerID string, req model.ReviewRequest) (*model.Employer, error)
}

// SubscriptionService sets an employer's plan.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID string, req model.SubscribeRequest) (*model.Employer, error)
}

// EmployerHandlers provides HTTP handlers for employer accounts and their review.
type EmployerHandlers struct {
	Svc   EmployersService
	Plans SubscriptionService
}

// GetProfile returns the caller's company profile.
// GET /api/employer/profile.
func (h *EmployerHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Svc.GetProfile(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "get_profile", err)
		return
	}
	WriteJSON(w, http.StatusOK, emp)
}

// UpdateProfile applies a partial edit to the caller's company profile.
// PUT /api/employer/profile.
func (h *EmployerHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEmployerProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	emp, err := h.Svc.UpdateProfile(r.Context(), sessionOf(r).UserID, req)
	if err != nil {
		WriteAppError(w, "update_profile", err)
		return
	}
	WriteJSON(w, http.StatusOK, emp)
}

// SubmitKYC stores Aadhaar and PAN for review.
// POST /api/employer/kyc.
func (h *EmployerHandlers) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	var sub model.KYCSubmission
	if !DecodeJSON(w, r, &sub) {
		return
	}
	status, err := h.Svc.SubmitKYC(r.Context(), sessionOf(r).UserID, sub)
	if err != nil {
		WriteAppError(w, "submit_kyc", err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// KYCStatus returns the caller's verification state.
// GET /api/employer/kyc.
func (h *EmployerHandlers) KYCStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Svc.KYCStatus(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "kyc_status", err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// Subscribe puts the caller's employer on a plan.
// POST /api/employer/subscription.
func (h *EmployerHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req model.SubscribeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	emp, err := h.Plans.Subscribe(r.Context(), sessionOf(r).UserID, req)
	if err != nil {
		WriteAppError(w, "subscribe", err)
		return
	}
	WriteJSON(w, http.StatusOK, emp)
}

// AdminList lists employers for review.
// GET /api/admin/employers?status=&q=.
func (h *EmployerHandlers) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.EmployersListOptions{ListOptions: listOptions(r), Q: queryString(q, "q")}
	if raw := queryString(q, "status"); raw != nil {
		s, ok := model.ParseVerificationStatus(*raw)
		if !ok {
			writeBadRequest(w, "status", "status must be one of: pending, approved, rejected")
			return
		}
		opts.Status = &s
	}
	emps, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, "list", err)
		return
	}
	writePage(w, "employers", emps, opts.Limit, opts.Offset)
}

// AdminGet returns an employer with the decrypted KYC numbers.
// GET /api/admin/employers/{id}.
func (h *EmployerHandlers) AdminGet(w http.ResponseWriter, r *http.Request) {
	review, err := h.Svc.Review(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, "get", err)
		return
	}
	WriteJSON(w, http.StatusOK, review)
}

// Approve marks an employer verified.
// POST /api/admin/employers/{id}/approve.
func (h *EmployerHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Svc.Approve(r.Context(), r.PathValue("id"), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "approve", err)
		return
	}
	WriteJSON(w, http.StatusOK, emp)
}

// Reject marks an employer rejected with an optional reason.
// POST /api/admin/employers/{id}/reject.
func (h *EmployerHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	var req model.ReviewRequest
	if r.ContentLength != 0 && !DecodeJSON(w, r, &req) {
		return
	}
	emp, err := h.Svc.Reject(r.Context(), r.PathValue("id"), sessionOf(r).UserID, req)
	if err != nil {
		WriteAppError(w, "reject", err)
		return
	}
	WriteJSON(w, http.StatusOK, emp)
}
