package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/target/photo-pipeline/config"
	"github.com/target/photo-pipeline/internal/adapters/jobrunner"
	"github.com/target/photo-pipeline/internal/adapters/processing"
	redisadapter "github.com/target/photo-pipeline/internal/adapters/redis"
	"github.com/target/photo-pipeline/internal/adapters/s3store"
	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/data"
	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/observability/statsd"
	"github.com/target/photo-pipeline/internal/observability/tracing"
	"github.com/target/photo-pipeline/internal/queue"
	"github.com/target/photo-pipeline/internal/service"
)

// ServiceContainer holds all application services. It is built once at
// startup and passed explicitly; nothing here is a package global.
type ServiceContainer struct {
	Queue     *queue.Connection
	Submitter *queue.Submitter
	Photos    *data.PhotoRepo
	Processor *service.PhotoProcessor
	// Assessments runs run-app-assessment jobs.
	Assessments core.AssessmentRunner
	// Publisher and Runner are set only when the worker service is enabled.
	Publisher     *service.StatusPublisher
	Runner        *jobrunner.Runner
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	MetricsConfig  config.ObservabilityMetricsConfig
	Tracer         *tracing.Tracer
	TracerProvider *sdktrace.TracerProvider
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // a nil *statsd.Client must surface as a nil interface.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// Close flushes metrics and spans.
func (o ObservabilityContainer) Close(ctx context.Context) error {
	var errs []error
	if o.MetricsSink != nil {
		if err := o.MetricsSink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close statsd client: %w", err))
		}
	}
	if o.TracerProvider != nil {
		if err := o.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Release closes what a failed NewServices call already built. The caller is
// returning the init error, so close errors are logged.
func (c ServiceContainer) Release(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if c.Queue != nil {
		closeAndLog(ctx, logger, "queue connection", c.Queue)
	}
	if err := c.Observability.Close(ctx); err != nil {
		logger.ErrorContext(ctx, "flush observability failed", "error", err)
	}
}

func closeAndLog(ctx context.Context, logger *slog.Logger, resource string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.ErrorContext(ctx, "close failed", "resource", resource, "error", err)
	}
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	Logger *slog.Logger

	// Optional overrides used by tests.
	ClientFactory queue.ClientFactory
	Storage       core.ObjectStorage
}

// buildObservability configures metrics and tracing.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  statsd.DefaultPrefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	container := ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
		Tracer:        tracing.Disabled(),
	}
	if cfg.Tracing.Enabled {
		processors, err := tracing.NewSpanProcessors(cfg.Tracing.Exporter, nil)
		if err != nil {
			obsLogger.Error("failed to initialise trace exporter", "error", err)
		}
		provider := tracing.NewProvider(cfg.Tracing.ServiceName, processors...)
		container.TracerProvider = provider
		container.Tracer = tracing.NewTracer(tracing.Options{Enabled: true, Provider: provider})
	}
	return container
}

func newQueueConnection(cfg *config.AppConfig, factory queue.ClientFactory, logger *slog.Logger) (*queue.Connection, error) {
	if factory == nil {
		factory = RedisClientFactory(cfg.Redis)
	}
	return queue.NewConnection(queue.ConnectionOptions{
		Factory: factory,
		NewRepo: func(client redis.UniversalClient) (core.QueueRepository, error) {
			return data.NewQueueRepo(client, data.QueueRepoConfig{
				Queue:           cfg.Queue.Name,
				MaxStalledCount: job.MaxStalledCount,
				Logger:          logger,
			})
		},
		PingTimeout: cfg.Queue.PingTimeout,
		Logger:      logger,
	})
}

func newPhotoProcessor(
	ctx context.Context,
	deps *ServiceDeps,
	photos *data.PhotoRepo,
	client *processing.Client,
	tracer *tracing.Tracer,
) (*service.PhotoProcessor, error) {
	storage := deps.Storage
	if storage == nil {
		store, err := s3store.New(ctx, deps.Config.Storage)
		if err != nil {
			return nil, fmt.Errorf("create object storage: %w", err)
		}
		storage = store
	}

	transitioner, err := service.NewStorageTransitioner(service.StorageTransitionerOptions{
		Photos:  photos,
		Storage: storage,
		Logger:  deps.Logger,
	})
	if err != nil {
		return nil, err
	}

	return service.NewPhotoProcessor(service.PhotoProcessorOptions{
		Photos: photos,
		Collaborators: service.PhotoCollaborators{
			Derivatives: client,
			Analyzer:    client,
			Auxiliary:   client,
		},
		Transitioner: transitioner,
		Config:       service.PhotoProcessorConfig{AIEnabled: deps.Config.Processing.AIEnabled},
		Logger:       deps.Logger,
		Tracer:       tracer,
	})
}

// NewServices wires the container. When the worker is enabled the broker is
// connected eagerly; an unreachable broker is then a startup error.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
		deps.Logger = logger
	}
	cfg := deps.Config

	obs := buildObservability(logger, cfg.Observability)

	conn, err := newQueueConnection(cfg, deps.ClientFactory, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create queue connection: %w", err)
	}

	submitter, err := queue.NewSubmitter(queue.SubmitterOptions{
		Broker: conn,
		Tracer: obs.Tracer,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create job submitter: %w", err)
	}

	container := ServiceContainer{
		Queue:         conn,
		Submitter:     submitter,
		Observability: obs,
	}

	if !cfg.IsWorkerEnabled() {
		return container, nil
	}

	if err := wireWorker(ctx, deps, &container); err != nil {
		return container, err
	}
	return container, nil
}

func wireWorker(ctx context.Context, deps *ServiceDeps, c *ServiceContainer) error {
	cfg := deps.Config
	if deps.DB == nil {
		return errors.New("worker requires a database connection")
	}

	client, err := processing.NewClient(processing.ClientOptions{
		BaseURL: cfg.Processing.BaseURL,
		Timeout: cfg.Processing.Timeout,
		Tracer:  c.Observability.Tracer,
	})
	if err != nil {
		return fmt.Errorf("create processing client: %w", err)
	}

	c.Photos = data.NewPhotoRepo(deps.DB)
	c.Assessments = client
	c.Processor, err = newPhotoProcessor(ctx, deps, c.Photos, client, c.Observability.Tracer)
	if err != nil {
		return fmt.Errorf("create photo processor: %w", err)
	}

	if !c.Queue.EnsureConnected(ctx) {
		return fmt.Errorf("worker: %w", queue.ErrQueueUnavailable)
	}

	c.Publisher, err = service.NewStatusPublisher(service.StatusPublisherOptions{
		Owners:  c.Photos,
		Channel: redisadapter.NewStatusChannel(c.Queue.Client()),
		Logger:  deps.Logger,
		Metrics: c.Observability.Sink(),
	})
	if err != nil {
		return fmt.Errorf("create status publisher: %w", err)
	}

	c.Runner, err = jobrunner.NewRunner(jobrunner.RunnerOptions{
		Queue:           c.Queue.Queue(),
		Photos:          c.Processor,
		Assessments:     c.Assessments,
		Listeners:       []jobrunner.Listener{c.Publisher},
		Logger:          deps.Logger,
		Metrics:         c.Observability.Sink(),
		Tracer:          c.Observability.Tracer,
		QueueName:       cfg.Queue.Name,
		Concurrency:     cfg.Worker.Concurrency,
		BlockTimeout:    cfg.Worker.BlockTimeout,
		PromoteInterval: cfg.Worker.PromoteInterval,
	})
	if err != nil {
		return fmt.Errorf("create job runner: %w", err)
	}
	return nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
		ErrCh:    deps.errCh,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := descriptor.start(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
		select {
		case deps.errCh <- errMsg:
		case <-ctx.Done():
		default:
			deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newWorkerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeWorker,
		name: "worker",
		start: func(ctx context.Context) error {
			runner := deps.cfg.Services.Runner
			if runner == nil {
				return errors.New("worker enabled but job runner was not wired")
			}
			return runner.Run(ctx)
		},
	}
}

func newReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "reaper",
		start: func(ctx context.Context) error {
			var reaperCfg config.ReaperConfig
			if deps.cfg.Config != nil {
				reaperCfg = deps.cfg.Config.Reaper
			}
			return RunReaper(ctx, ReaperConfig{
				Queue:   deps.cfg.Services.Queue,
				Logger:  deps.logger,
				Config:  reaperCfg,
				Metrics: deps.cfg.Services.Observability.Sink(),
			})
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newWorkerBackgroundService(deps),
		newReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		ctx:             serviceCtx,
		cancel:          cancel,
		signals:         quit,
		errCh:           errCh,
		httpServer:      result.HTTPServer,
		shutdownTimeout: cfg.Config.HTTP.ShutdownTimeout,
		services:        cfg.Services,
		logger:          logger,
		backgrounds:     result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx             context.Context
	cancel          context.CancelFunc
	signals         <-chan os.Signal
	errCh           <-chan error
	httpServer      *http.Server
	shutdownTimeout time.Duration
	services        ServiceContainer
	logger          *slog.Logger
	backgrounds     []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case sig := <-cfg.signals:
		cfg.logger.Info("shutting down services...", "signal", sig.String())
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops the HTTP server, waits for background services, then
// releases the broker connection and flushes observability.
func gracefulStop(cfg shutdownConfig) error {
	stopCtx := context.WithoutCancel(cfg.ctx)
	var errs []error

	if cfg.httpServer != nil {
		timeout := cfg.shutdownTimeout
		if timeout <= 0 {
			timeout = shutdownWaitTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(stopCtx, timeout)
		err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		})
		cancel()
		if err != nil {
			errs = append(errs, err)
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	if cfg.services.Queue != nil {
		if err := cfg.services.Queue.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	flushCtx, cancel := context.WithTimeout(stopCtx, 5*time.Second)
	defer cancel()
	if err := cfg.services.Observability.Close(flushCtx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
