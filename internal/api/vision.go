package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/service"
)

// MaxImageSize bounds uploaded dish photos
const MaxImageSize = 8 << 20

// VisionHandler analyses photographed dishes
type VisionHandler struct {
	analyzer service.ImageAnalyzer
	logger   *zap.Logger
}

func NewVisionHandler(analyzer service.ImageAnalyzer, logger *zap.Logger) *VisionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisionHandler{analyzer: analyzer, logger: logger.Named("vision_api")}
}

// RegisterRoutes registers the vision route
func (h *VisionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/vision/analyze", h.Analyze)
}

// Analyze expects a multipart "image" field and returns the model's description
func (h *VisionHandler) Analyze(c *gin.Context) {
	if h.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image analysis is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize+1<<20)
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image must be 8MB or smaller"})
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if _, err := service.ImageFormat(mimeType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	analysis, err := h.analyzer.AnalyzeImage(c.Request.Context(), mimeType, data, service.DishAnalysisPrompt)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Warn("image analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "image analysis failed", "details": retryMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
