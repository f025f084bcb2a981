// Package main is the entrypoint for the AgentHub API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agenthub/agenthub/internal/auth"
	"github.com/agenthub/agenthub/internal/cache"
	"github.com/agenthub/agenthub/internal/config"
	"github.com/agenthub/agenthub/internal/handler"
	"github.com/agenthub/agenthub/internal/metrics"
	"github.com/agenthub/agenthub/internal/middleware"
	"github.com/agenthub/agenthub/internal/notify"
	"github.com/agenthub/agenthub/internal/oauth"
	"github.com/agenthub/agenthub/internal/repository"
	"github.com/agenthub/agenthub/internal/server"
	"github.com/agenthub/agenthub/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Token codec. Load already rejected weak secrets, so this only fails
	// if the length check there ever drifts from the codec's.
	codec, err := auth.NewCodec(cfg.AuthSecret)
	if err != nil {
		logger.Error("failed to initialize token codec", "error", err)
		os.Exit(1)
	}

	// OAuth identity provider
	oauthClient := oauth.NewClient(oauth.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		AuthURL:      cfg.OAuthAuthURL,
		TokenURL:     cfg.OAuthTokenURL,
		UserInfoURL:  cfg.OAuthUserInfoURL,
	}, notify.NewHTTPClient())

	// Metrics
	recorder := metrics.NewInMemory()

	// OTP delivery: HTTP mail API when configured, log sender otherwise.
	var sender notify.Sender
	if cfg.MailAPIURL != "" {
		sender = notify.NewHTTPSender(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, notify.NewHTTPClient())
		logger.Info("otp delivery via mail API", "url", redactURL(cfg.MailAPIURL))
	} else {
		sender = notify.NewLogSender(logger)
		logger.Warn("MAIL_API_URL not set, OTP codes will be logged")
	}
	deliveryWorker := notify.NewWorker(cacheClient, sender, logger, recorder)
	deliveryWorker.Start(ctx)

	// Initialize services
	authz := service.NewAuthz(repo, recorder)
	authService := service.NewAuthService(repo, cacheClient, cacheClient, oauthClient, codec, logger, recorder)
	orgService := service.NewOrgService(repo, authz)
	agentService := service.NewAgentService(repo, authz)
	usageService := service.NewUsageService(repo, authz)
	websiteService := service.NewWebsiteService(repo, authz)

	// Initialize handlers
	deps := routerDeps{
		root:    handler.New(),
		health:  handler.NewHealthHandler(repo, cacheClient),
		metrics: handler.NewMetricsHandler(recorder),
		auth:    handler.NewAuthHandler(authService, logger),
		org:     handler.NewOrganizationHandler(orgService, logger),
		agent:   handler.NewAgentHandler(agentService, logger),
		usage:   handler.NewUsageHandler(usageService, logger),
		website: handler.NewWebsiteHandler(websiteService, logger),
		codec:   codec,
		rec:     recorder,
	}

	// Setup router
	r := setupRouter(deps, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("otp-delivery-worker", deliveryWorker.Shutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything the router needs.
type routerDeps struct {
	root    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	auth    *handler.AuthHandler
	org     *handler.OrganizationHandler
	agent   *handler.AgentHandler
	usage   *handler.UsageHandler
	website *handler.WebsiteHandler
	codec   *auth.Codec
	rec     metrics.Recorder
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.root.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:  logger,
		Codec:   deps.codec,
		Metrics: deps.rec,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Login flows (no auth required)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/oauth", deps.auth.OAuthLogin)
			r.Post("/login", deps.auth.PasswordLogin)
			r.Post("/register", deps.auth.Register)
			r.Post("/otp/request", deps.auth.RequestOTP)
			r.Post("/otp/verify", deps.auth.VerifyOTP)
		})

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", deps.org.List)
				r.Post("/", deps.org.Create)
				r.Get("/{id}", deps.org.Get)
				r.Patch("/{id}", deps.org.Update)
				r.Delete("/{id}", deps.org.Delete)

				r.Get("/{id}/members", deps.org.ListMembers)
				r.Post("/{id}/members", deps.org.AddMember)

				r.Get("/{id}/agents", deps.agent.List)
				r.Post("/{id}/agents", deps.agent.Create)

				r.Get("/{id}/usage", deps.usage.List)
				r.Post("/{id}/usage", deps.usage.Record)
			})

			r.Route("/agents", func(r chi.Router) {
				r.Get("/{id}", deps.agent.Get)
				r.Patch("/{id}", deps.agent.Update)
				r.Delete("/{id}", deps.agent.Delete)
			})

			r.Get("/usage/{id}", deps.usage.Get)

			r.Route("/websites", func(r chi.Router) {
				r.Get("/", deps.website.List)
				r.Post("/", deps.website.Register)
				r.Get("/{id}", deps.website.Get)
				r.Delete("/{id}", deps.website.Delete)
				r.Post("/{id}/verify", deps.website.Verify)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.root.NotFound)
	r.MethodNotAllowed(deps.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
