package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chefbotpro/backend/internal/service"
	"github.com/chefbotpro/backend/internal/types"
)

// NutritionHandler answers food macro lookups
type NutritionHandler struct {
	nutrition service.INutritionService
}

func NewNutritionHandler(nutrition service.INutritionService) *NutritionHandler {
	return &NutritionHandler{nutrition: nutrition}
}

// RegisterRoutes registers the nutrition routes
func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/nutrition/lookup", h.Lookup)
}

// Lookup returns macros for a free-form food description
func (h *NutritionHandler) Lookup(c *gin.Context) {
	if h.nutrition == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "nutrition lookup is not configured"})
		return
	}

	var req types.NutritionLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.nutrition.Lookup(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
