package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/adapters/events"
	"github.com/medexjob/medexjob-api/internal/adapters/filestore"
	"github.com/medexjob/medexjob-api/internal/adapters/pdftext"
	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/data/cryptoutil"
	"github.com/medexjob/medexjob-api/internal/observability/notify"
	"github.com/medexjob/medexjob-api/internal/observability/notify/pagerduty"
	"github.com/medexjob/medexjob-api/internal/observability/notify/slack"
	"github.com/medexjob/medexjob-api/internal/observability/statsd"
	"github.com/medexjob/medexjob-api/internal/ports"
	"github.com/medexjob/medexjob-api/internal/service"
)

// CacheKeyPrefix namespaces cache entries in the shared Redis.
const CacheKeyPrefix = "cache:"

const (
	metricsPrefix    = "medexjob"
	eventsLoggerName = "events"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Employers     *service.EmployerService
	Candidates    *service.CandidateService
	Jobs          *service.JobService
	Applications  *service.ApplicationService
	Notifications *service.NotificationService
	SavedJobs     *service.SavedJobService
	JobAlerts     *service.JobAlertService
	Plans         *service.PlanService
	Uploads       *service.UploadService
	Stats         *service.StatsService

	// Files is shared with the reaper, which removes orphaned uploads.
	Files         ports.FileStore
	Observability ObservabilityContainer

	closers []io.Closer
}

// Close releases the event writer and metrics socket.
func (c *ServiceContainer) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// ObservabilityContainer groups shared observability dependencies.
// MetricsSink is nil when StatsD is disabled; Events falls back to a no-op
// publisher when no Kafka brokers are configured.
type ObservabilityContainer struct {
	MetricsSink    statsd.Sink
	MetricsConfig  config.ObservabilityMetricsConfig
	Alerts         *notify.Fanout
	NotifierConfig config.ObservabilityNotificationsConfig
	Events         ports.EventPublisher
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users         *data.UserRepo
	Employers     *data.EmployerRepo
	Candidates    *data.CandidateRepo
	Jobs          *data.JobRepo
	Applications  *data.ApplicationRepo
	Notifications *data.NotificationRepo
	SavedJobs     *data.SavedJobRepo
	JobAlerts     *data.JobAlertRepo
	Plans         *data.PlanRepo
	Uploads       *data.UploadRepo
	Stats         *data.StatsRepo
	Cache         *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		Users:         data.NewUserRepo(db),
		Employers:     data.NewEmployerRepo(db),
		Candidates:    data.NewCandidateRepo(db),
		Jobs:          data.NewJobRepo(db),
		Applications:  data.NewApplicationRepo(db),
		Notifications: data.NewNotificationRepo(db),
		SavedJobs:     data.NewSavedJobRepo(db),
		JobAlerts:     data.NewJobAlertRepo(db),
		Plans:         data.NewPlanRepo(db),
		Uploads:       data.NewUploadRepo(db),
		Stats:         data.NewStatsRepo(db),
	}
	if redisClient != nil {
		repos.Cache = data.NewRedisCacheRepo(redisClient, CacheKeyPrefix)
	}
	return repos
}

// buildObservability configures metrics, admin alert sinks and the event publisher.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) (ObservabilityContainer, []io.Closer) {
	var closers []io.Closer
	obs := ObservabilityContainer{
		MetricsConfig:  cfg.Metrics,
		NotifierConfig: cfg.Notifications,
		Alerts:         buildAdminAlerts(logger, cfg.Notifications),
	}

	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  metricsPrefix,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			obs.MetricsSink = client
			closers = append(closers, client)
		}
	}

	obs.Events = events.NoopPublisher{Logger: logger.With("component", eventsLoggerName)}
	if cfg.Events.IsEnabled() {
		pub, err := events.NewKafkaPublisher(events.KafkaPublisherOptions{
			Brokers:      cfg.Events.Brokers,
			TopicPrefix:  cfg.Events.TopicPrefix,
			WriteTimeout: cfg.Events.WriteTimeout,
			Logger:       logger,
		})
		if err != nil {
			logger.Error("failed to initialise kafka publisher, events disabled", "error", err)
		} else {
			obs.Events = pub
			closers = append(closers, pub)
			logger.Info("kafka event publisher enabled", "brokers", len(cfg.Events.Brokers))
		}
	}

	return obs, closers
}

// buildAdminAlerts fans KYC and moderation alerts out to Slack and PagerDuty.
// The fanout always logs, so it is returned even with no sinks configured.
func buildAdminAlerts(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *notify.Fanout {
	var sinks []ports.AdminAlerter
	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL:     cfg.Slack.WebhookURL,
			Channel:        cfg.Slack.Channel,
			Username:       cfg.Slack.Username,
			Timeout:        cfg.Timeout,
			RetryLimit:     cfg.RetryLimit,
			AdminURLPrefix: cfg.Slack.AdminURLPrefix,
		})
		if err != nil {
			logger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, client)
		}
	}
	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey:  cfg.PagerDuty.RoutingKey,
			Source:      cfg.PagerDuty.Source,
			Component:   cfg.PagerDuty.Component,
			MinSeverity: cfg.PagerDuty.MinSeverity,
			Timeout:     cfg.Timeout,
			RetryLimit:  cfg.RetryLimit,
		})
		if err != nil {
			logger.Error("failed to initialise pagerduty notifier", "error", err)
		} else {
			sinks = append(sinks, client)
		}
	}
	return notify.NewFanout(logger, sinks...)
}

// domainServicesOptions groups everything buildDomainServices wires together.
type domainServicesOptions struct {
	Config        *config.AppConfig
	Repos         *serviceRepositories
	Auth          *service.AuthService
	Files         ports.FileStore
	Extractor     ports.TextExtractor
	Encryptor     cryptoutil.Encryptor
	Observability ObservabilityContainer
	Logger        *slog.Logger
}

func buildDomainServices(opts *domainServicesOptions) ServiceContainer {
	cfg, repos, obs, logger := opts.Config, opts.Repos, opts.Observability, opts.Logger
	fileURLs := service.NewFileURLResolver(cfg.Files.PublicBaseURL)

	var (
		planCache *core.PlanCatalogCache
		views     *core.ViewDeduper
	)
	if repos.Cache != nil {
		planCache = core.NewPlanCatalogCache(repos.Cache, cfg.Cache.PlansTTL)
		views = core.NewViewDeduper(repos.Cache, cfg.Cache.JobViewWindow)
	}

	plans := service.NewPlanService(service.PlanServiceOptions{
		Plans:         repos.Plans,
		Employers:     repos.Employers,
		Jobs:          repos.Jobs,
		Cache:         planCache,
		FreePostLimit: cfg.Jobs.FreePostLimit,
		FileURLs:      fileURLs,
		Logger:        logger,
	})
	jobAlerts := service.NewJobAlertService(service.JobAlertServiceOptions{
		Repo:          repos.JobAlerts,
		Notifications: repos.Notifications,
		BatchSize:     cfg.Jobs.AlertBatchSize,
		Logger:        logger,
	})
	candidates := service.NewCandidateService(service.CandidateServiceOptions{
		Repo:     repos.Candidates,
		FileURLs: fileURLs,
		Logger:   logger,
	})

	return ServiceContainer{
		Auth: opts.Auth,
		Users: service.NewUserService(service.UserServiceOptions{
			Repo:     repos.Users,
			Sessions: opts.Auth,
			Logger:   logger,
		}),
		Employers: service.NewEmployerService(service.EmployerServiceOptions{
			Repos: service.EmployerRepos{
				Employers:     repos.Employers,
				Users:         repos.Users,
				Notifications: repos.Notifications,
			},
			Outputs: service.EmployerOutputs{
				Alerts:  obs.Alerts,
				Events:  obs.Events,
				Metrics: obs.MetricsSink,
			},
			Settings: service.EmployerSettings{
				Encryptor: opts.Encryptor,
				FileURLs:  fileURLs,
				Logger:    logger,
			},
		}),
		Candidates: candidates,
		Jobs: service.NewJobService(service.JobServiceOptions{
			Jobs:      repos.Jobs,
			Employers: repos.Employers,
			Quota:     plans,
			Alerts:    jobAlerts,
			Views:     views,
			Events:    obs.Events,
			Logger:    logger,
		}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Repos: service.ApplicationRepos{
				Applications:  repos.Applications,
				Jobs:          repos.Jobs,
				Employers:     repos.Employers,
				Candidates:    repos.Candidates,
				Notifications: repos.Notifications,
			},
			Events:   obs.Events,
			Metrics:  obs.MetricsSink,
			FileURLs: fileURLs,
			Logger:   logger,
		}),
		Notifications: service.NewNotificationService(service.NotificationServiceOptions{
			Repo:   repos.Notifications,
			Logger: logger,
		}),
		SavedJobs: service.NewSavedJobService(repos.SavedJobs),
		JobAlerts: jobAlerts,
		Plans:     plans,
		Uploads: service.NewUploadService(service.UploadServiceOptions{
			Repo:      repos.Uploads,
			Store:     opts.Files,
			Resumes:   candidates,
			Extractor: opts.Extractor,
			FileURLs:  fileURLs,
			MaxBytes:  cfg.Files.MaxUploadBytes,
			Logger:    logger,
		}),
		Stats:         service.NewStatsService(repos.Stats, repos.Employers),
		Files:         opts.Files,
		Observability: obs,
	}
}

// NewServices creates all application services. The caller owns the returned
// container and must Close it after the services stop.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database connection is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	repos := buildRepositories(deps.DB, deps.RedisClient)

	files, err := filestore.NewLocal(cfg.Files.Dir)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("open upload store: %w", err)
	}

	auth, err := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		IsDev:       cfg.IsDev,
		Users:       repos.Users,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	obs, closers := buildObservability(logger, cfg.Observability)

	container := buildDomainServices(&domainServicesOptions{
		Config:        cfg,
		Repos:         repos,
		Auth:          auth,
		Files:         files,
		Extractor:     pdftext.Extractor{Dir: files.Root()},
		Encryptor:     CreateEncryptor(cfg.KYCEncryptionKey, logger),
		Observability: obs,
		Logger:        logger,
	})
	container.closers = closers
	return container, nil
}
