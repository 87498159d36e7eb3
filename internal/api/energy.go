package api

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chefbotpro/backend/internal/service"
	"github.com/chefbotpro/backend/internal/types"
)

// EnergyHandler exposes the energy model on its own
type EnergyHandler struct{}

func NewEnergyHandler() *EnergyHandler {
	return &EnergyHandler{}
}

// RegisterRoutes registers the energy route
func (h *EnergyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/energy", h.Calculate)
}

// Calculate returns BMR, TDEE, the goal adjusted calorie target and BMI
func (h *EnergyHandler) Calculate(c *gin.Context) {
	var req types.EnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		return
	}

	targets := service.ComputeEnergy(req.Height, req.Weight, req.Age, req.Gender, req.ActivityLevel, req.Goal)
	c.JSON(http.StatusOK, gin.H{
		"bmr":            int(math.Round(targets.BMR)),
		"tdee":           int(math.Round(targets.TDEE)),
		"targetCalories": targets.TargetCalories,
		"bmi":            service.BMI(req.Height, req.Weight),
	})
}
