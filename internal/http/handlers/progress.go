package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/moonquill/moonquill-backend/internal/http/response"
	"github.com/moonquill/moonquill-backend/internal/services"
)

const (
	defaultProgressLimit = 50
	maxProgressLimit     = 200
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GET /me/reading-progress?limit=N
func (ph *ProgressHandler) List(c *gin.Context) {
	limit := limitParam(c, "limit", defaultProgressLimit, maxProgressLimit)
	results, err := ph.progressService.ListForUser(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, results)
}

// GET /me/reading-progress/latest
func (ph *ProgressHandler) Latest(c *gin.Context) {
	result, err := ph.progressService.LatestForUser(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if result == nil {
		response.RespondOK(c, nil)
		return
	}
	response.RespondOK(c, result)
}

// PUT /me/reading-progress
// body: { "novel_id": "...", "chapter_id": "...", "percent": 0-100, "metadata": {...} }
func (ph *ProgressHandler) Record(c *gin.Context) {
	var req struct {
		NovelID   uuid.UUID      `json:"novel_id"`
		ChapterID uuid.UUID      `json:"chapter_id"`
		Percent   int            `json:"percent"`
		Metadata  datatypes.JSON `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := ph.progressService.Record(c.Request.Context(), req.NovelID, req.ChapterID, req.Percent, req.Metadata)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, row)
}
