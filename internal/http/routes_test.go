package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

func newTestRouter() http.Handler {
	return NewRouter(RouterServices{Auth: &fakeAuth{}, Jobs: &fakeJobs{}})
}

func TestNewRouter_RoleGuards(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{"health", httptest.NewRequest(http.MethodGet, "/healthz", nil), http.StatusOK},
		{"health head", httptest.NewRequest(http.MethodHead, "/healthz", nil), http.StatusOK},
		{"public search", httptest.NewRequest(http.MethodGet, "/api/jobs", nil), http.StatusOK},
		{"public job", httptest.NewRequest(http.MethodGet, "/api/jobs/j1", nil), http.StatusOK},
		{
			"employer route anonymous",
			httptest.NewRequest(http.MethodPost, "/api/employer/jobs", jsonBody(`{}`)),
			http.StatusUnauthorized,
		},
		{
			"employer route as candidate",
			bearer(http.MethodPost, "/api/employer/jobs", domainauth.RoleCandidate, `{}`),
			http.StatusForbidden,
		},
		{
			"employer route as employer",
			bearer(http.MethodPost, "/api/employer/jobs", domainauth.RoleEmployer, `{"title":"x"}`),
			http.StatusCreated,
		},
		{"admin route as employer", bearer(http.MethodGet, "/api/admin/jobs", domainauth.RoleEmployer, ""), http.StatusForbidden},
		{"admin route as admin", bearer(http.MethodGet, "/api/admin/jobs", domainauth.RoleAdmin, ""), http.StatusOK},
		{
			"admin acts as employer",
			bearer(http.MethodGet, "/api/employer/jobs/j1", domainauth.RoleAdmin, ""),
			http.StatusOK,
		},
		{"me requires auth", httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), http.StatusUnauthorized},
		{"me as candidate", bearer(http.MethodGet, "/api/auth/me", domainauth.RoleCandidate, ""), http.StatusOK},
		{"status never 401", httptest.NewRequest(http.MethodGet, "/api/auth/status", nil), http.StatusOK},
		{"unregistered group", httptest.NewRequest(http.MethodGet, "/api/plans", nil), http.StatusNotFound},
		{"unknown path", httptest.NewRequest(http.MethodGet, "/nope", nil), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestNewRouter_NotFoundIsJSON(t *testing.T) {
	w := serve(newTestRouter(), httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not_found","message":"resource not found"}`, w.Body.String())
}

func TestNewRouter_RequiresAuth(t *testing.T) {
	assert.Panics(t, func() { NewRouter(RouterServices{}) })
}

func TestRegisterCRUD_SkipsNilHandlers(t *testing.T) {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	registerCRUD(mux, crudRoutes{Base: "/things", List: ok, Delete: ok})

	assert.Equal(t, http.StatusOK, serve(mux, httptest.NewRequest(http.MethodGet, "/things", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(mux, httptest.NewRequest(http.MethodDelete, "/things/1", nil)).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, httptest.NewRequest(http.MethodPost, "/things", nil)).Code)
	assert.Panics(t, func() { registerCRUD(mux, crudRoutes{}) })
}
