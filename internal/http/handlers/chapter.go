package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moonquill/moonquill-backend/internal/http/response"
	"github.com/moonquill/moonquill-backend/internal/services"
)

type ChapterHandler struct {
	chapterService services.ChapterService
}

func NewChapterHandler(chapterService services.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterService: chapterService}
}

// GET /novels/:id/chapters
func (ch *ChapterHandler) ListForNovel(c *gin.Context) {
	novelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chapters, err := ch.chapterService.ListForNovel(c.Request.Context(), novelID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapters": chapters})
}

// GET /chapters/:id
func (ch *ChapterHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chapter, err := ch.chapterService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": chapter})
}

// POST /novels/:id/chapters
// body: { "chapter_number": N, "title": "...", "body": "..." }
func (ch *ChapterHandler) Create(c *gin.Context) {
	novelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		ChapterNumber int    `json:"chapter_number"`
		Title         string `json:"title"`
		Body          string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chapter, err := ch.chapterService.Create(c.Request.Context(), novelID, req.ChapterNumber, req.Title, req.Body)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"chapter": chapter})
}

// POST /chapters/:id/publish
func (ch *ChapterHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chapter, err := ch.chapterService.Publish(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": chapter})
}
