package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/medexjob/medexjob-api/config"
	httpx "github.com/medexjob/medexjob-api/internal/http"
	"github.com/medexjob/medexjob-api/internal/service"
)

// HTTPServerConfig feeds NewHTTPServer.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
	// Readiness probes; see ReadinessChecks.
	Readiness []httpx.HealthCheck
}

// NewHTTPServer assembles the middleware chain and router. The caller
// starts and stops the returned server.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	routes := routerServices(cfg.Services, appCfg.HTTP, logger)
	routes.Readiness = cfg.Readiness
	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: routes,
		HTTP:     appCfg.HTTP,
	})

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	// Uploads stream through the handler, so reads get more room than writes.
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

func routerServices(svc *ServiceContainer, httpCfg config.HTTPConfig, logger *slog.Logger) httpx.RouterServices {
	return httpx.RouterServices{
		Auth:          svc.Auth,
		Users:         svc.Users,
		Employers:     svc.Employers,
		Candidates:    svc.Candidates,
		Jobs:          svc.Jobs,
		Applications:  svc.Applications,
		Notifications: svc.Notifications,
		SavedJobs:     svc.SavedJobs,
		JobAlerts:     svc.JobAlerts,
		Plans:         svc.Plans,
		Uploads:       svc.Uploads,
		Stats:         svc.Stats,
		CookieDomain:  httpCfg.CookieDomain,
		FrontendURL:   httpCfg.FrontendURL,
		Logger:        logger,
	}
}

// ReadinessChecks probes Postgres and Redis. Nil clients are skipped.
func ReadinessChecks(db *sql.DB, rdb redis.UniversalClient) []httpx.HealthCheck {
	var checks []httpx.HealthCheck
	if db != nil {
		checks = append(checks, httpx.HealthCheck{Name: "postgres", Probe: db.PingContext})
	}
	if rdb != nil {
		checks = append(checks, httpx.HealthCheck{Name: "redis", Probe: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return checks
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

// buildHTTPHandler wraps the router.
// Order: Recover -> Logging -> CORS -> CSRF -> Compression -> Router.
// CORS answers preflights before CSRF sees them; compression is innermost so
// logging records the compressed size.
func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	h := httpx.NewRouter(cfg.Services)

	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{
			Level:   cfg.HTTP.CompressionLevel,
			MinSize: cfg.HTTP.CompressionMinSize,
			Logger:  cfg.Logger,
		})(h)
	}

	h = httpx.CSRFProtection(httpx.CSRFConfig{CookieDomain: cfg.HTTP.CookieDomain})(h)
	h = newCORS(cfg.HTTP.CORSAllowedOrigins).Handler(h)
	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h
}

// newCORS allows the SPA origins to call the API with cookies.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", httpx.DefaultCSRFHeaderName},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context    context.Context
	Server     *http.Server
	JobService *service.JobService
	Logger     *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	if err := cfg.Server.Shutdown(cfg.Context); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	// Let in-flight job alert matching finish before the database closes.
	if cfg.JobService != nil {
		cfg.JobService.Wait()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
