package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/config"
	"github.com/chefbotpro/backend/internal/api"
	"github.com/chefbotpro/backend/internal/database"
	"github.com/chefbotpro/backend/internal/metrics"
	"github.com/chefbotpro/backend/internal/middleware"
	"github.com/chefbotpro/backend/internal/router"
	"github.com/chefbotpro/backend/internal/server"
	"github.com/chefbotpro/backend/internal/service"
	"github.com/chefbotpro/backend/internal/tracing"
	"github.com/chefbotpro/backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chefbot api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Environment == config.Development,
	})
	defer func() { _ = log.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName:    "chefbot-api",
		ServiceVersion: api.Version,
		Environment:    string(cfg.Environment),
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SamplingRate:   cfg.Tracing.SamplingRate,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	m := metrics.New()
	deps := api.Dependencies{Logger: log}

	if cfg.Sensay.OrganizationSecret != "" && cfg.Sensay.ReplicaID != "" {
		deps.Chat = service.NewSensayClient(service.SensayConfig{
			BaseURL:            cfg.Sensay.APIURL,
			OrganizationSecret: cfg.Sensay.OrganizationSecret,
			ReplicaID:          cfg.Sensay.ReplicaID,
			APIVersion:         cfg.Sensay.APIVersion,
			Timeout:            cfg.Sensay.Timeout,
		}, nil, log, m)
	} else {
		log.Warn("Sensay is not configured, diet plans will use the fallback catalog")
	}
	deps.DietPlans = service.NewDietPlanService(deps.Chat, log, m)

	if cfg.Supabase.JWTSecret != "" {
		deps.Tokens = service.NewSupabaseTokenValidator(cfg.Supabase.JWTSecret)
	} else {
		log.Warn("Supabase JWT secret is not set, saved plans are disabled")
	}

	if cfg.Database.DSN != "" {
		db, err := database.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		if err := database.RunMigrations(db, log); err != nil {
			return err
		}
		deps.Plans = service.NewPlanStore(db, log)
	}

	redisClient, err := database.NewRedisClient(cfg.Redis, log)
	if err != nil {
		// Continue without rate limiting and caching if Redis is not available
		log.Warn("failed to connect to Redis", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
		deps.RateLimiter = middleware.NewPlanGenerationRateLimiter(redisClient, cfg.RateLimit.PlanGenerationsPerHour, log)
	}

	deps.Nutrition = service.NewNutritionService(service.NutritionConfig{
		APIURL: cfg.Nutrition.APIURL,
		APIKey: cfg.Nutrition.APIKey,
	}, nil, redisClient, log, m)

	if cfg.Gemini.APIKey != "" {
		analyzer, err := service.NewGeminiImageAnalyzer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
		if err != nil {
			return err
		}
		defer analyzer.Close()
		deps.Vision = analyzer
	}

	if cfg.S3.Bucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to configure S3: %w", err)
		}
		deps.Exporter = service.NewPlanExporter(s3cfg, log)
	}

	engine := router.SetupRouter(deps, router.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		Metrics:           m,
		Logger:            log,
	})

	handler := otelhttp.NewHandler(engine, "chefbot-api")
	return server.New(cfg.Address(), handler, cfg.Server.ShutdownTimeout, log).Run(ctx)
}
