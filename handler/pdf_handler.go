package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docbricks-be/service"
	"github.com/tieubaoca/docbricks-be/types"
	"github.com/tieubaoca/docbricks-be/workspace"
)

type PDFHandler struct {
	workspaces *service.WorkspaceManager
	baseDir    string
}

func NewPDFHandler(workspaces *service.WorkspaceManager, baseDir string) *PDFHandler {
	return &PDFHandler{
		workspaces: workspaces,
		baseDir:    baseDir,
	}
}

// HandleList enumerates PDFs under the upload directory. An empty result can
// mean an empty directory or a failed listing; the gateway does not
// distinguish the two.
func (h *PDFHandler) HandleList(c *gin.Context) {
	gateway, err := h.workspaces.Gateway()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	entries := gateway.List(c.Request.Context(), h.baseDir)
	pdfs := make([]workspace.ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(strings.ToLower(entry.Path), ".pdf") {
			pdfs = append(pdfs, entry)
		}
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: gin.H{
			"pdfs":  pdfs,
			"count": len(pdfs),
		},
	})
}
