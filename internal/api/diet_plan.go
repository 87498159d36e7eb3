package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/middleware"
	"github.com/chefbotpro/backend/internal/model"
	"github.com/chefbotpro/backend/internal/service"
	"github.com/chefbotpro/backend/internal/types"
)

const (
	generateFailedMessage = "Failed to generate diet plan"
	retryMessage          = "Please try again in a few moments"
)

// DietPlanHandler serves plan generation and the saved plan routes
type DietPlanHandler struct {
	plans       service.IDietPlanService
	store       service.IPlanStore
	exporter    service.IPlanExporter
	tokens      middleware.TokenValidator
	rateLimiter *middleware.RateLimiter
	logger      *zap.Logger
}

// NewDietPlanHandler creates a new DietPlanHandler instance
func NewDietPlanHandler(deps Dependencies) *DietPlanHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DietPlanHandler{
		plans:       deps.DietPlans,
		store:       deps.Plans,
		exporter:    deps.Exporter,
		tokens:      deps.Tokens,
		rateLimiter: deps.RateLimiter,
		logger:      logger.Named("diet_plan_api"),
	}
}

// RegisterRoutes registers the diet plan routes
func (h *DietPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/diet-plans")

	generate := []gin.HandlerFunc{middleware.OptionalAuth(h.tokens)}
	if h.rateLimiter != nil {
		generate = append(generate, h.rateLimiter.RateLimitMiddleware())
	}
	generate = append(generate, h.Generate)
	plans.POST("/generate", generate...)

	if h.tokens == nil {
		return
	}
	saved := plans.Group("")
	saved.Use(middleware.AuthMiddleware(h.tokens))
	{
		saved.GET("", h.List)
		saved.GET("/:id", h.Get)
		saved.DELETE("/:id", h.Delete)
		saved.POST("/:id/export", h.Export)
	}
}

// Generate builds a weekly plan. Authenticated callers get the plan saved when
// persistence is configured.
func (h *DietPlanHandler) Generate(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("diet plan generation panicked", zap.Any("panic", r), zap.Stack("stack"))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": generateFailedMessage, "details": retryMessage})
		}
	}()

	var req types.DietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	resp, err := h.plans.Generate(c.Request.Context(), req, userID)
	if err != nil {
		var netErr *service.UpstreamNetworkError
		switch {
		case errors.Is(err, service.ErrInvalidDietPlanRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		case errors.As(err, &netErr):
			middleware.Logger(c).Error("recipe service unreachable", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": generateFailedMessage, "details": err.Error()})
		default:
			middleware.Logger(c).Error("diet plan generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": generateFailedMessage, "details": retryMessage})
		}
		return
	}

	if h.store != nil && middleware.IsAuthenticated(c) {
		if _, err := h.store.Save(c.Request.Context(), userID, req.Goal, resp); err != nil {
			// The plan is still useful without a saved copy
			middleware.Logger(c).Warn("failed to save diet plan", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, resp)
}

// List returns the caller's saved plans without their payloads
func (h *DietPlanHandler) List(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	records, err := h.store.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.Logger(c).Error("failed to list diet plans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list diet plans"})
		return
	}
	if records == nil {
		records = []model.PlanRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"plans": records})
}

// Get returns one saved plan response
func (h *DietPlanHandler) Get(c *gin.Context) {
	record, ok := h.loadRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record.Payload)
}

// Delete removes one saved plan
func (h *DietPlanHandler) Delete(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	err := h.store.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		middleware.Logger(c).Error("failed to delete diet plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete diet plan"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Export uploads a saved plan and returns a temporary download link
func (h *DietPlanHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "plan export is not configured"})
		return
	}
	record, ok := h.loadRecord(c)
	if !ok {
		return
	}

	result, err := h.exporter.Export(c.Request.Context(), record)
	if err != nil {
		middleware.Logger(c).Error("failed to export diet plan", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to export diet plan"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DietPlanHandler) loadRecord(c *gin.Context) (*model.PlanRecord, bool) {
	if !h.requireStore(c) {
		return nil, false
	}
	record, err := h.store.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		middleware.Logger(c).Error("failed to load diet plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load diet plan"})
		return nil, false
	}
	return record, true
}

func (h *DietPlanHandler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "plan storage is not configured"})
		return false
	}
	return true
}
