// Package httpx provides the JSON HTTP API: handlers, routing and middleware.
package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
// Nil services leave their routes unregistered.
type RouterServices struct {
	Auth          AuthServiceInterface // Required: resolves sessions for every guarded route
	Users         UsersService
	Employers     EmployersService
	Candidates    CandidatesService
	Jobs          JobsService
	Applications  ApplicationsService
	Notifications NotificationsService
	SavedJobs     SavedJobsService
	JobAlerts     JobAlertsService
	Plans         interface {
		PlansService
		SubscriptionService
	}
	Uploads UploadsService
	Stats   StatsService

	// Readiness lists the probes behind GET /readyz.
	Readiness []HealthCheck

	CookieDomain string
	FrontendURL  string
	Logger       *slog.Logger
}

// routeGuards bundles the auth middlewares used while registering routes.
type routeGuards struct {
	optional  func(http.Handler) http.Handler
	anyUser   func(http.Handler) http.Handler
	admin     func(http.Handler) http.Handler
	employer  func(http.Handler) http.Handler
	candidate func(http.Handler) http.Handler
}

func newRouteGuards(auth SessionAuthenticator) routeGuards {
	return routeGuards{
		optional:  OptionalAuth(auth),
		anyUser:   RequireAuth(auth),
		admin:     RequireRole(auth, domainauth.RoleAdmin),
		employer:  RequireRole(auth, domainauth.RoleEmployer),
		candidate: RequireRole(auth, domainauth.RoleCandidate),
	}
}

// NewRouter creates and configures the API router.
func NewRouter(services RouterServices) http.Handler {
	if services.Auth == nil {
		panic("NewRouter: Auth must not be nil") //nolint:forbidigo // Fail fast during server setup.
	}
	mux := http.NewServeMux()
	g := newRouteGuards(services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	ready := readinessHandler{checks: services.Readiness, logger: services.Logger}
	mux.Handle("GET /readyz", ready)
	mux.Handle("HEAD /readyz", ready)

	registerAuthRoutes(mux, g, &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		FrontendURL:  services.FrontendURL,
		Logger:       services.Logger,
	})
	if services.Users != nil {
		registerUserRoutes(mux, g, &UserHandlers{Svc: services.Users})
	}
	if services.Jobs != nil {
		registerJobRoutes(mux, g, &JobHandlers{Svc: services.Jobs})
	}
	if services.Applications != nil {
		registerApplicationRoutes(mux, g, &ApplicationHandlers{Svc: services.Applications})
	}
	if services.Employers != nil && services.Plans != nil {
		registerEmployerRoutes(mux, g, &EmployerHandlers{Svc: services.Employers, Plans: services.Plans})
	}
	if services.Candidates != nil && services.SavedJobs != nil && services.JobAlerts != nil {
		registerCandidateRoutes(mux, g, &CandidateHandlers{
			Profiles: services.Candidates,
			Saved:    services.SavedJobs,
			Alerts:   services.JobAlerts,
		})
	}
	if services.Notifications != nil {
		registerNotificationRoutes(mux, g, &NotificationHandlers{Svc: services.Notifications})
	}
	if services.Plans != nil {
		registerPlanRoutes(mux, g, &PlanHandlers{Svc: services.Plans})
	}
	if services.Uploads != nil {
		registerUploadRoutes(mux, g, &UploadHandlers{Svc: services.Uploads})
	}
	if services.Stats != nil {
		registerStatsRoutes(mux, g, &StatsHandlers{Svc: services.Stats})
	}

	mux.HandleFunc("/", notFound)
	return mux
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "resource not found"})
}

func registerAuthRoutes(mux *http.ServeMux, g routeGuards, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.Handle("POST /api/auth/logout", g.optional(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/auth/me", g.anyUser(http.HandlerFunc(h.Me)))
	mux.Handle("PATCH /api/auth/me", g.anyUser(http.HandlerFunc(h.UpdateMe)))
	mux.Handle("POST /api/auth/refresh", g.anyUser(http.HandlerFunc(h.Refresh)))
	mux.Handle("GET /api/auth/status", g.optional(http.HandlerFunc(h.Status)))
	mux.HandleFunc("GET /auth/login", h.SSOLogin)
	mux.HandleFunc("GET /auth/callback", h.SSOCallback)
}

func registerUserRoutes(mux *http.ServeMux, g routeGuards, h *UserHandlers) {
	registerCRUD(mux, crudRoutes{
		Base:       "/api/admin/users",
		List:       h.List,
		GetByID:    h.Get,
		Patch:      h.Update,
		Delete:     h.Delete,
		Middleware: g.admin,
	})
}

func registerJobRoutes(mux *http.ServeMux, g routeGuards, h *JobHandlers) {
	mux.HandleFunc("GET /api/jobs", h.Search)
	mux.Handle("GET /api/jobs/{id}", g.optional(http.HandlerFunc(h.Get)))

	registerCRUD(mux, crudRoutes{
		Base:       "/api/employer/jobs",
		Create:     h.Create,
		List:       h.ListMine,
		GetByID:    h.GetMine,
		Update:     h.UpdateMine,
		Delete:     h.DeleteMine,
		Middleware: g.employer,
	})

	registerCRUD(mux, crudRoutes{
		Base:       "/api/admin/jobs",
		List:       h.AdminList,
		Delete:     h.AdminDelete,
		Middleware: g.admin,
	})
	mux.Handle("PATCH /api/admin/jobs/{id}/status", g.admin(http.HandlerFunc(h.AdminSetStatus)))
}

func registerApplicationRoutes(mux *http.ServeMux, g routeGuards, h *ApplicationHandlers) {
	mux.Handle("POST /api/jobs/{id}/apply", g.candidate(http.HandlerFunc(h.Apply)))
	mux.Handle("GET /api/candidate/applications", g.candidate(http.HandlerFunc(h.ListMine)))
	mux.Handle("POST /api/candidate/applications/{id}/withdraw", g.candidate(http.HandlerFunc(h.Withdraw)))
	mux.Handle("GET /api/employer/jobs/{id}/applications", g.employer(http.HandlerFunc(h.ListForJob)))
	mux.Handle("PATCH /api/employer/applications/{id}/status", g.employer(http.HandlerFunc(h.UpdateStatus)))
}

func registerEmployerRoutes(mux *http.ServeMux, g routeGuards, h *EmployerHandlers) {
	mux.Handle("GET /api/employer/profile", g.employer(http.HandlerFunc(h.GetProfile)))
	mux.Handle("PUT /api/employer/profile", g.employer(http.HandlerFunc(h.UpdateProfile)))
	mux.Handle("GET /api/employer/kyc", g.employer(http.HandlerFunc(h.KYCStatus)))
	mux.Handle("POST /api/employer/kyc", g.employer(http.HandlerFunc(h.SubmitKYC)))
	mux.Handle("POST /api/employer/subscription", g.employer(http.HandlerFunc(h.Subscribe)))

	registerCRUD(mux, crudRoutes{
		Base:       "/api/admin/employers",
		List:       h.AdminList,
		GetByID:    h.AdminGet,
		Middleware: g.admin,
	})
	mux.Handle("POST /api/admin/employers/{id}/approve", g.admin(http.HandlerFunc(h.Approve)))
	mux.Handle("POST /api/admin/employers/{id}/reject", g.admin(http.HandlerFunc(h.Reject)))
}

func registerCandidateRoutes(mux *http.ServeMux, g routeGuards, h *CandidateHandlers) {
	mux.Handle("GET /api/candidate/profile", g.candidate(http.HandlerFunc(h.GetProfile)))
	mux.Handle("PUT /api/candidate/profile", g.candidate(http.HandlerFunc(h.UpdateProfile)))

	mux.Handle("GET /api/candidate/saved-jobs", g.candidate(http.HandlerFunc(h.ListSaved)))
	mux.Handle("GET /api/candidate/saved-jobs/ids", g.candidate(http.HandlerFunc(h.SavedIDs)))
	mux.Handle("PUT /api/candidate/saved-jobs/{jobID}", g.candidate(http.HandlerFunc(h.Save)))
	mux.Handle("DELETE /api/candidate/saved-jobs/{jobID}", g.candidate(http.HandlerFunc(h.Unsave)))

	registerCRUD(mux, crudRoutes{
		Base:       "/api/candidate/job-alerts",
		Create:     h.CreateAlert,
		List:       h.ListAlerts,
		Update:     h.UpdateAlert,
		Delete:     h.DeleteAlert,
		Middleware: g.candidate,
	})
}

func registerNotificationRoutes(mux *http.ServeMux, g routeGuards, h *NotificationHandlers) {
	mux.Handle("GET /api/notifications", g.anyUser(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/notifications/unread-count", g.anyUser(http.HandlerFunc(h.UnreadCount)))
	mux.Handle("POST /api/notifications/read-all", g.anyUser(http.HandlerFunc(h.MarkAllRead)))
	mux.Handle("POST /api/notifications/{id}/read", g.anyUser(http.HandlerFunc(h.MarkRead)))
	mux.Handle("DELETE /api/notifications/{id}", g.anyUser(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/admin/notifications", g.admin(http.HandlerFunc(h.Broadcast)))
}

func registerPlanRoutes(mux *http.ServeMux, g routeGuards, h *PlanHandlers) {
	mux.HandleFunc("GET /api/plans", h.ListActive)
	registerCRUD(mux, crudRoutes{
		Base:       "/api/admin/plans",
		Create:     h.Create,
		List:       h.AdminList,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: g.admin,
	})
}

func registerUploadRoutes(mux *http.ServeMux, g routeGuards, h *UploadHandlers) {
	mux.Handle("POST /api/uploads", g.anyUser(http.HandlerFunc(h.Upload)))
	mux.Handle("GET /files/{id}", g.optional(http.HandlerFunc(h.Serve)))
}

func registerStatsRoutes(mux *http.ServeMux, g routeGuards, h *StatsHandlers) {
	mux.Handle("GET /api/admin/stats", g.admin(http.HandlerFunc(h.Admin)))
	mux.Handle("GET /api/employer/dashboard", g.employer(http.HandlerFunc(h.Employer)))
	mux.Handle("GET /api/candidate/dashboard", g.candidate(http.HandlerFunc(h.Candidate)))
}

// crudRoutes lists the standard handlers for a resource base path. Nil
// handlers are not registered.
type crudRoutes struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Patch      http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

// registerCRUD registers the resource's routes, applying Middleware if non-nil.
func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}

	wrap := func(h http.HandlerFunc) http.Handler {
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}
	for _, route := range []struct {
		pattern string
		h       http.HandlerFunc
	}{
		{"POST " + cfg.Base, cfg.Create},
		{"GET " + cfg.Base, cfg.List},
		{"GET " + cfg.Base + "/{id}", cfg.GetByID},
		{"PUT " + cfg.Base + "/{id}", cfg.Update},
		{"PATCH " + cfg.Base + "/{id}", cfg.Patch},
		{"DELETE " + cfg.Base + "/{id}", cfg.Delete},
	} {
		if route.h != nil {
			mux.Handle(route.pattern, wrap(route.h))
		}
	}
}
