package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/drive"
	"github.com/gin-gonic/gin"
)

// DriveBrowser lists Drive folders so operators can find the file ids to
// configure as sources.
type DriveBrowser interface {
	ListFiles(ctx context.Context, folderID string) ([]*drive.File, error)
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

type DriveHandler struct {
	drive DriveBrowser
}

func NewDriveHandler(browser DriveBrowser) *DriveHandler {
	return &DriveHandler{drive: browser}
}

func (h *DriveHandler) ListFiles(c *gin.Context) {
	folderID := strings.TrimSpace(c.Query("folderId"))

	if folderPath := strings.TrimSpace(c.Query("path")); folderPath != "" {
		id, err := h.drive.FindFolderByPath(c.Request.Context(), folderPath)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found", "details": err.Error()})
			return
		}
		folderID = id
	}

	files, err := h.drive.ListFiles(c.Request.Context(), folderID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list drive files", "details": err.Error()})
		return
	}
	if files == nil {
		files = make([]*drive.File, 0)
	}

	c.JSON(http.StatusOK, gin.H{"folder_id": folderID, "files": files})
}
