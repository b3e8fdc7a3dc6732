// Package main provides the entrypoint for the VRCPulse collector: the
// polling supervisor plus the admin API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/alert"
	"github.com/Hebububu/VRCPulse/internal/api"
	"github.com/Hebububu/VRCPulse/internal/api/middleware"
	"github.com/Hebububu/VRCPulse/internal/auth"
	"github.com/Hebububu/VRCPulse/internal/botconfig"
	"github.com/Hebububu/VRCPulse/internal/database"
	"github.com/Hebububu/VRCPulse/internal/incident"
	"github.com/Hebububu/VRCPulse/internal/maintenance"
	"github.com/Hebububu/VRCPulse/internal/metric"
	"github.com/Hebububu/VRCPulse/internal/metricsfeed"
	"github.com/Hebububu/VRCPulse/internal/notify"
	"github.com/Hebububu/VRCPulse/internal/poller"
	"github.com/Hebububu/VRCPulse/internal/report"
	"github.com/Hebububu/VRCPulse/internal/status"
	"github.com/Hebububu/VRCPulse/internal/statuspage"
	"github.com/Hebububu/VRCPulse/internal/subscriber"
	"github.com/Hebububu/VRCPulse/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "vrcpulse-collector"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting VRCPulse collector")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Runtime configuration
	configService := botconfig.NewService(botconfig.ServiceConfig{
		Repository: botconfig.NewPostgresRepository(pool),
		Logger:     log,
	})

	// Startup poller intervals must be present and valid; a half-configured
	// process is worse than a crashed one.
	intervals := make(map[botconfig.PollerName]time.Duration)
	for _, name := range botconfig.AllPollers() {
		interval, err := configService.PollerInterval(ctx, name)
		if err != nil {
			log.Fatal().Err(err).Str("poller", string(name)).Msg("failed to load poller interval")
		}
		intervals[name] = interval
	}
	log.Info().Msg("poller intervals loaded")

	// Upstream clients
	statuspageClient := statuspage.NewClient(statuspage.ClientConfig{})
	metricsfeedClient := metricsfeed.NewClient(metricsfeed.ClientConfig{})

	// Reconcilers
	statusReconciler := status.NewReconciler(status.ReconcilerConfig{
		Source:     statuspageClient,
		Repository: status.NewPostgresRepository(pool),
		Logger:     log,
	})
	incidentReconciler := incident.NewReconciler(incident.ReconcilerConfig{
		Source:     statuspageClient,
		Repository: incident.NewPostgresRepository(pool),
		Logger:     log,
	})
	maintenanceReconciler := maintenance.NewReconciler(maintenance.ReconcilerConfig{
		Source:     statuspageClient,
		Repository: maintenance.NewPostgresRepository(pool),
		Logger:     log,
	})
	metricReconciler := metric.NewReconciler(metric.ReconcilerConfig{
		Source:      metricsfeedClient,
		Repository:  metric.NewPostgresRepository(pool),
		Logger:      log,
		Definitions: metricsfeed.Definitions,
	})

	// Report intake and alert fanout
	reportRepo := report.NewPostgresRepository(pool)
	reportService := report.NewService(report.ServiceConfig{
		Repository: reportRepo,
		Logger:     log,
	})

	subscriberRepo := subscriber.NewPostgresRepository(pool)

	var dispatcher *alert.Dispatcher
	if sink := buildSink(ctx, log); sink != nil {
		dispatcher = alert.NewDispatcher(alert.DispatcherConfig{
			Receipts:    alert.NewPostgresRepository(pool),
			Reports:     reportRepo,
			Settings:    configService,
			Subscribers: subscriberRepo,
			Sink:        sink,
			Logger:      log,
		})
		log.Info().Msg("alert dispatcher initialized")
	} else {
		log.Warn().Msg("no notification sink configured - alerts disabled")
	}

	// Polling supervisor
	supervisor := poller.NewSupervisor(poller.SupervisorConfig{
		Definitions: []poller.Definition{
			{
				Name:     string(botconfig.PollerStatus),
				Interval: intervals[botconfig.PollerStatus],
				Updates:  configService.IntervalUpdates(botconfig.PollerStatus),
				Poll: func(ctx context.Context) error {
					return statusReconciler.Reconcile(ctx, time.Now().UTC())
				},
			},
			{
				Name:     string(botconfig.PollerIncident),
				Interval: intervals[botconfig.PollerIncident],
				Updates:  configService.IntervalUpdates(botconfig.PollerIncident),
				Poll: func(ctx context.Context) error {
					return incidentReconciler.Reconcile(ctx, time.Now().UTC())
				},
			},
			{
				Name:     string(botconfig.PollerMaintenance),
				Interval: intervals[botconfig.PollerMaintenance],
				Updates:  configService.IntervalUpdates(botconfig.PollerMaintenance),
				Poll: func(ctx context.Context) error {
					return maintenanceReconciler.Reconcile(ctx, time.Now().UTC())
				},
			},
			{
				Name:     string(botconfig.PollerMetrics),
				Interval: intervals[botconfig.PollerMetrics],
				Updates:  configService.IntervalUpdates(botconfig.PollerMetrics),
				Poll: func(ctx context.Context) error {
					return metricReconciler.Reconcile(ctx, time.Now().UTC())
				},
			},
		},
		Logger: log,
	})

	pollCtx, stopPolling := context.WithCancel(ctx)
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		supervisor.Run(pollCtx)
	}()

	// Admin API
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	authService := auth.NewService(auth.Config{
		SigningKey: jwtSigningKey,
		Issuer:     "https://vrcpulse.dev",
		Audience:   "vrcpulse-admin",
	})

	routerCfg := api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		AuthService:   authService,
		ConfigService: configService,
		Subscribers:   subscriberRepo,
		Incidents:     incident.NewPostgresRepository(pool),
		Maintenances:  maintenance.NewPostgresRepository(pool),
		Reports:       reportService,
		DB:            pool,
	}
	if dispatcher != nil {
		routerCfg.Alerts = dispatcher
	}
	router := api.NewRouter(routerCfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	stopPolling()
	<-pollDone
	log.Info().Msg("pollers stopped")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("collector stopped")
}

// buildSink selects the alert delivery transport from the environment:
// Pub/Sub when a project and topic are configured, a webhook otherwise.
// Returns nil when neither is configured.
func buildSink(ctx context.Context, log zerolog.Logger) notify.Sink {
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	topicName := os.Getenv("PUBSUB_TOPIC")
	if projectID != "" && topicName != "" {
		sink, err := notify.NewPubSubSink(ctx, notify.PubSubSinkConfig{
			ProjectID: projectID,
			TopicName: topicName,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub sink")
		}
		log.Info().Str("topic", topicName).Msg("pubsub sink initialized")
		return sink
	}

	if webhookURL := os.Getenv("ALERT_WEBHOOK_URL"); webhookURL != "" {
		log.Info().Msg("webhook sink initialized")
		return notify.NewWebhookSink(notify.WebhookSinkConfig{
			URL:    webhookURL,
			Logger: log,
		})
	}

	return nil
}
