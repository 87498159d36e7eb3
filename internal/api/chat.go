package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chefbotpro/backend/internal/middleware"
	"github.com/chefbotpro/backend/internal/service"
	"github.com/chefbotpro/backend/internal/types"
)

// ChatHandler relays chatbot messages to the Sensay replica
type ChatHandler struct {
	chat   service.ChatCompleter
	tokens middleware.TokenValidator
	logger *zap.Logger
}

func NewChatHandler(chat service.ChatCompleter, tokens middleware.TokenValidator, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{chat: chat, tokens: tokens, logger: logger.Named("chat_api")}
}

// RegisterRoutes registers the chat route
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", middleware.OptionalAuth(h.tokens), h.Send)
}

// Send forwards the message with chat history kept and returns the reply
func (h *ChatHandler) Send(c *gin.Context) {
	if h.chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is not configured"})
		return
	}

	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.chat.ChatCompletion(c.Request.Context(), middleware.UserID(c), req.Message, false)
	if err != nil {
		h.logger.Warn("chat completion failed", zap.String("user_id", middleware.UserID(c)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "chat service unavailable", "details": retryMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
