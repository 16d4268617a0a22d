package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GET /api/files/folders?path=
func (h *Handler) ListFolders(c *gin.Context) {
	folders, err := h.API.FireBase.FoldersInPath(c.Request.Context(), c.Query("path"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

// GET /api/files/files?path=
func (h *Handler) ListFiles(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "path is required", nil)
		return
	}
	files, err := h.API.FireBase.FilesInFolder(c.Request.Context(), path)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

type createFolderRequest struct {
	Path string `json:"path" binding:"required"`
}

// POST /api/files/folders
func (h *Handler) CreateFolder(c *gin.Context) {
	var in createFolderRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	if strings.Contains(in.Path, "..") {
		respondError(c, http.StatusBadRequest, "validation_error", "path must not contain ..", nil)
		return
	}
	if err := h.API.FireBase.CreateFolder(c.Request.Context(), strings.Trim(in.Path, "/")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
