package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental/internal/assistant"
)

// AssistantHandler handles HTTP requests for the rental help assistant.
type AssistantHandler struct {
	provider assistant.Provider
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(provider assistant.Provider) *AssistantHandler {
	return &AssistantHandler{provider: provider}
}

// ChatRequest is the HTTP request body for an assistant question.
type ChatRequest struct {
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
}

// ChatResponse is the HTTP response for an assistant answer.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat handles POST /v1/assistant
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Message == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message is required"})
		return
	}

	reply, err := h.provider.Reply(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "assistant unavailable"})
		return
	}

	respondJSON(c, http.StatusOK, ChatResponse{Reply: reply})
}
