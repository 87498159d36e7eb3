package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/api"
	"github.com/chefbotpro/backend/internal/metrics"
	"github.com/chefbotpro/backend/internal/middleware"
)

// Options configure the engine outside of the API dependencies
type Options struct {
	AllowedOrigins    []string
	RequestsPerSecond float64
	Burst             int
	Metrics           *metrics.Metrics
	Logger            *zap.Logger
}

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(deps api.Dependencies, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(logger.Named("http")),
		middleware.Recovery(logger),
		opts.Metrics.Middleware(),
		middleware.CORS(opts.AllowedOrigins),
	)

	// Health check endpoints (no auth required)
	router.GET("/health", api.HealthCheck)
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Throttle(opts.RequestsPerSecond, opts.Burst))
	api.RegisterRoutes(v1, deps)
	return router
}
