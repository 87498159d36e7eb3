package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/middleware"
	"github.com/chefbotpro/backend/internal/service"
)

// Version is reported by the health check
const Version = "v1.0.0"

// Dependencies are the services behind the HTTP API. Optional services may be nil
// and their routes answer 503.
type Dependencies struct {
	DietPlans   service.IDietPlanService
	Plans       service.IPlanStore
	Exporter    service.IPlanExporter
	Nutrition   service.INutritionService
	Chat        service.ChatCompleter
	Vision      service.ImageAnalyzer
	Tokens      middleware.TokenValidator
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "ChefBot Pro API is running",
		"version": Version,
	})
}

// RegisterRoutes registers all /api/v1 routes on router
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router.GET("/health", HealthCheck)

	NewDietPlanHandler(deps).RegisterRoutes(router)
	NewEnergyHandler().RegisterRoutes(router)
	NewNutritionHandler(deps.Nutrition).RegisterRoutes(router)
	NewChatHandler(deps.Chat, deps.Tokens, deps.Logger).RegisterRoutes(router)
	NewVisionHandler(deps.Vision, deps.Logger).RegisterRoutes(router)

	if deps.RateLimiter != nil && deps.Tokens != nil {
		RegisterRateLimitRoutes(router, deps.Tokens, deps.RateLimiter)
	}
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, tokens middleware.TokenValidator, limiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(tokens))
	rateLimits.GET("/diet-plans", func(c *gin.Context) {
		remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"limit":      limiter.Limit(),
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     "1h",
		})
	})
}
