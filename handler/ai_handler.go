package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docbricks-be/service"
	"github.com/tieubaoca/docbricks-be/types"
)

type AIHandler struct {
	ai *service.AIManager
}

func NewAIHandler(ai *service.AIManager) *AIHandler {
	return &AIHandler{ai: ai}
}

// HandleConfigure selects (or switches) the completion provider at runtime.
// Configuration failures are reported as data, not status codes; the
// previously active provider keeps serving until a configure succeeds.
func (h *AIHandler) HandleConfigure(c *gin.Context) {
	var req types.ConfigureAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ConfigureAIResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	err := h.ai.Configure(service.AISettings{
		Provider:      req.Provider,
		Model:         req.Model,
		Endpoint:      req.Endpoint,
		OpenAIAPIKey:  req.OpenAIAPIKey,
		GeminiAPIKeys: req.GeminiAPIKeys,
	})
	if err != nil {
		c.JSON(http.StatusOK, types.ConfigureAIResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.ConfigureAIResponse{
		Success:  true,
		Provider: req.Provider,
		Model:    req.Model,
	})
}
