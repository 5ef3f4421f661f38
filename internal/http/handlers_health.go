package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const readinessTimeout = 3 * time.Second

// HealthCheck probes one backing dependency for GET /readyz.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler answers liveness probes. It never touches dependencies.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, healthBody{Status: "ok"})
}

// readinessHandler runs every probe under one shared deadline and reports
// 503 when any of them fails. Probe errors are logged, not returned.
type readinessHandler struct {
	checks []HealthCheck
	logger *slog.Logger
}

func (h readinessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	body := healthBody{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	code := http.StatusOK
	for _, c := range h.checks {
		if err := c.Probe(ctx); err != nil {
			if h.logger != nil {
				h.logger.WarnContext(ctx, "readiness probe failed", "check", c.Name, "error", err)
			}
			body.Checks[c.Name] = "unavailable"
			body.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		body.Checks[c.Name] = "ok"
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, body)
}
