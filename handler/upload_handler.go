package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docbricks-be/service"
	"github.com/tieubaoca/docbricks-be/types"
)

const maxUploadSize = 10 << 20

type UploadHandler struct {
	workspaces *service.WorkspaceManager
	baseDir    string
}

func NewUploadHandler(workspaces *service.WorkspaceManager, baseDir string) *UploadHandler {
	return &UploadHandler{
		workspaces: workspaces,
		baseDir:    baseDir,
	}
}

// UploadPDFHandler pushes an uploaded PDF into the workspace, optionally
// creating a processing notebook next to it.
func (h *UploadHandler) UploadPDFHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Only PDF files are allowed",
		})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File too large",
		})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	gateway, err := h.workspaces.Gateway()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	filename := sanitizeFilename(header.Filename)
	targetPath := path.Join(h.baseDir, filename)
	if err := gateway.Upload(c.Request.Context(), content, targetPath, true); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	response := types.UploadResponse{
		OriginalName: header.Filename,
		Path:         targetPath,
	}

	if c.Request.FormValue("create_notebook") == "true" {
		notebookPath := strings.TrimSuffix(targetPath, ".pdf") + "_processing"
		source := processingNotebookSource(targetPath)
		if err := gateway.CreateNotebook(c.Request.Context(), notebookPath, source, true); err != nil {
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
			return
		}
		response.NotebookPath = notebookPath
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   response,
	})
}

// sanitizeFilename keeps workspace paths to a safe character set.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, path.Base(name))
}

func processingNotebookSource(pdfPath string) string {
	return fmt.Sprintf(`# Databricks notebook source
# Processing notebook for %s

pdf_path = %q

# COMMAND ----------

print(f"PDF ready at {pdf_path}")
`, path.Base(pdfPath), pdfPath)
}
