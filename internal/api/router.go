// Package api provides the HTTP admin API for VRCPulse.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/api/handler"
	"github.com/Hebububu/VRCPulse/internal/api/middleware"
	"github.com/Hebububu/VRCPulse/internal/auth"
	"github.com/Hebububu/VRCPulse/internal/botconfig"
	"github.com/Hebububu/VRCPulse/internal/incident"
	"github.com/Hebububu/VRCPulse/internal/maintenance"
	"github.com/Hebububu/VRCPulse/internal/report"
	"github.com/Hebububu/VRCPulse/internal/subscriber"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	AuthService *auth.Service

	ConfigService *botconfig.Service
	Subscribers   subscriber.Repository
	Incidents     incident.Repository
	Maintenances  maintenance.Repository

	// Reports enables the public report intake endpoint. May be nil.
	Reports *report.Service

	// Alerts is invoked after an accepted report. May be nil.
	Alerts handler.AlertEvaluator

	// DB is used by the readiness check. May be nil.
	DB handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "vrcpulse-admin"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	adminHandler := handler.NewAdminHandler(cfg.ConfigService, cfg.Logger)
	subscriptionHandler := handler.NewSubscriptionHandler(cfg.Subscribers, cfg.Logger)
	mirrorHandler := handler.NewMirrorHandler(cfg.Incidents, cfg.Maintenances)

	authMiddleware := middleware.Auth(cfg.AuthService)

	adminRateLimit := middleware.RateLimitByOperator(middleware.AdminRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/providers", opsHandler.ListProviders)
		})

		// Mirror read endpoints (public) - standard rate limiting
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/incidents", mirrorHandler.ListUnresolvedIncidents)
			r.Get("/maintenances", mirrorHandler.ListMaintenances)

			if cfg.Reports != nil {
				reportHandler := handler.NewReportHandler(cfg.Reports, cfg.Alerts, cfg.ConfigService, cfg.Logger)
				r.With(middleware.RequireJSON).Post("/reports", reportHandler.SubmitReport)
			}
		})

		// Admin endpoints (authenticated) - operator-based rate limiting
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminRateLimit)
			r.Use(middleware.RequireJSON)

			r.Route("/pollers", func(r chi.Router) {
				r.Get("/", adminHandler.ListPollers)
				r.Post("/reset", adminHandler.ResetIntervals)
				r.Put("/{name}/interval", adminHandler.UpdateInterval)
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/settings", adminHandler.GetAlertSettings)
				r.Put("/threshold", adminHandler.UpdateThreshold)
				r.Put("/window", adminHandler.UpdateWindow)
			})

			r.Route("/guilds", func(r chi.Router) {
				r.Get("/", subscriptionHandler.ListGuilds)
				r.Route("/{guildId}", func(r chi.Router) {
					r.Get("/", subscriptionHandler.GetGuild)
					r.Put("/", subscriptionHandler.UpsertGuild)
				})
			})

			r.Route("/users/{userId}", func(r chi.Router) {
				r.Get("/", subscriptionHandler.GetUser)
				r.Put("/", subscriptionHandler.UpsertUser)
			})
		})
	})

	return r
}
