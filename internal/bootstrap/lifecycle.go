package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/service"
)

// shutdownTimeout bounds the HTTP drain after a stop signal.
const shutdownTimeout = 15 * time.Second

// ServiceOrchestrationConfig is everything the enabled modes need.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// component is one long-running part of the process. run returns when ctx
// is cancelled or the component fails.
type component struct {
	mode config.ServiceMode
	run  func(ctx context.Context) error
}

// RunServicesWithShutdown runs every enabled mode until ctx ends or one
// fails, then drains HTTP, waits for the rest and closes the service clients.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	switch {
	case cfg == nil:
		return errors.New("service orchestration config is required")
	case cfg.Config == nil:
		return errors.New("service orchestration config missing AppConfig")
	case cfg.Services == nil:
		return errors.New("service orchestration config missing services")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	comps, err := components(cfg)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		return errors.New("no services enabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range comps {
		cfg.Logger.InfoContext(ctx, "service starting", "mode", c.mode)
		g.Go(func() error {
			if err := c.run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s: %w", c.mode, err)
			}
			cfg.Logger.Info("service stopped", "mode", c.mode)
			return nil
		})
	}

	runErr := g.Wait()
	if runErr != nil {
		cfg.Logger.Error("service failed", "error", runErr)
	}
	if err := cfg.Services.Close(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("close service clients: %w", err))
	}
	return runErr
}

// components lists the enabled modes in a stable order.
func components(cfg *ServiceOrchestrationConfig) ([]component, error) {
	var out []component
	if cfg.Config.Services.Has(config.ServiceModeHTTP) {
		out = append(out, component{mode: config.ServiceModeHTTP, run: httpComponent(cfg)})
	}
	if cfg.Config.Services.Has(config.ServiceModeReaper) {
		reaper, err := newReaper(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, component{mode: config.ServiceModeReaper, run: reaper.Run})
	}
	return out, nil
}

func httpComponent(cfg *ServiceOrchestrationConfig) func(context.Context) error {
	srv := NewHTTPServer(&HTTPServerConfig{
		Config:    cfg.Config,
		Services:  cfg.Services,
		Logger:    cfg.Logger,
		Readiness: ReadinessChecks(cfg.DB, cfg.RedisClient),
	})
	return func(ctx context.Context) error {
		serveErr := make(chan error, 1)
		go func() {
			cfg.Logger.Info("starting HTTP server", "addr", srv.Addr)
			serveErr <- srv.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		// ctx is already cancelled, so the drain gets its own deadline.
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return ShutdownHTTPServer(ShutdownConfig{
			Context:    drainCtx,
			Server:     srv,
			JobService: cfg.Services.Jobs,
			Logger:     cfg.Logger,
		})
	}
}

// newReaper wires the housekeeping loop against Postgres and the shared
// file store.
func newReaper(cfg *ServiceOrchestrationConfig) (*service.ReaperService, error) {
	if cfg.DB == nil {
		return nil, errors.New("reaper needs a database connection")
	}
	if cfg.Services.Files == nil {
		return nil, errors.New("reaper needs a file store")
	}
	reaper, err := service.NewReaperService(service.ReaperServiceOptions{
		Repos: service.ReaperRepos{
			Jobs:          data.NewJobRepo(cfg.DB),
			Notifications: data.NewNotificationRepo(cfg.DB),
			Uploads:       data.NewUploadRepo(cfg.DB),
			Employers:     data.NewEmployerRepo(cfg.DB),
		},
		Files:   cfg.Services.Files,
		Config:  cfg.Config.Reaper,
		Logger:  cfg.Logger,
		Metrics: cfg.Services.Observability.MetricsSink,
	})
	if err != nil {
		return nil, fmt.Errorf("wire reaper: %w", err)
	}
	return reaper, nil
}
