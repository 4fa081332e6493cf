package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docbricks-be/service"
	"github.com/tieubaoca/docbricks-be/types"
)

type ChatHandler struct {
	queries *service.QueryService
}

func NewChatHandler(queries *service.QueryService) *ChatHandler {
	return &ChatHandler{queries: queries}
}

// HandleQuery answers a question about a workspace document. The response is
// always a structured QueryResponse, success or not.
func (h *ChatHandler) HandleQuery(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.QueryResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}
	if req.Question == "" || req.PDFPath == "" {
		c.JSON(http.StatusBadRequest, types.QueryResponse{
			Success: false,
			Error:   "question and pdf_path are required",
		})
		return
	}

	c.JSON(http.StatusOK, h.queries.Query(c.Request.Context(), req))
}

func (h *ChatHandler) HandleHistory(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	history, err := h.queries.History(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: gin.H{
			"conversation_id": conversationID,
			"history":         history,
		},
	})
}

// HandleClear removes a conversation. Clearing an unknown id succeeds.
func (h *ChatHandler) HandleClear(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	if err := h.queries.ClearHistory(c.Request.Context(), conversationID); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "Conversation " + conversationID + " cleared",
	})
}
