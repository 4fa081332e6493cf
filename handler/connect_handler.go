package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docbricks-be/service"
	"github.com/tieubaoca/docbricks-be/types"
)

type ConnectHandler struct {
	workspaces *service.WorkspaceManager
}

func NewConnectHandler(workspaces *service.WorkspaceManager) *ConnectHandler {
	return &ConnectHandler{workspaces: workspaces}
}

// HandleConnect establishes (or rebinds) the workspace connection for the
// whole backend. Connection failures are reported as data, not status codes.
func (h *ConnectHandler) HandleConnect(c *gin.Context) {
	var req types.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ConnectResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	user, err := h.workspaces.Connect(c.Request.Context(), req.Host, req.Token)
	if err != nil {
		c.JSON(http.StatusOK, types.ConnectResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.ConnectResponse{
		Success:      true,
		User:         user,
		WorkspaceURL: h.workspaces.Host(),
	})
}
