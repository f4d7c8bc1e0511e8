package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartamenu/carta-rag/internal/domains/chat"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

type ChatHandler struct {
	chatService chat.Service
	logger      *logger.Logger
}

func NewChatHandler(chatService chat.Service, lg *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      lg,
	}
}

// Create answers a customer question about a menu
// @Summary Ask the menu assistant a question
// @Description Embeds the question, retrieves the most relevant menu products and returns a grounded answer citing them
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body chat.Request true "Customer question"
// @Success 200 {object} chat.Response "Answer with product references"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "Menu not found"
// @Failure 503 {object} ErrorResponse "AI provider unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /chat [post]
func (h *ChatHandler) Create(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.chatService.Ask(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, chat.ErrMenuNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Menu not found"})
		case errors.Is(err, chat.ErrProviderUnavailable):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "AI service temporarily unavailable"})
		default:
			h.logger.Errorf("chat request failed: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
