package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/moonquill/moonquill-backend/internal/http/response"
	"github.com/moonquill/moonquill-backend/internal/services"
)

const (
	defaultNovelListLimit = 20
	maxNovelListLimit     = 100

	defaultMaxCoverUploadMB = 10
)

type NovelHandler struct {
	novelService  services.NovelService
	maxCoverBytes int64
}

func NewNovelHandler(novelService services.NovelService, maxCoverUploadMB int) *NovelHandler {
	if maxCoverUploadMB <= 0 {
		maxCoverUploadMB = defaultMaxCoverUploadMB
	}
	return &NovelHandler{
		novelService:  novelService,
		maxCoverBytes: int64(maxCoverUploadMB) << 20,
	}
}

// GET /novels?limit=N&offset=M
func (nh *NovelHandler) List(c *gin.Context) {
	limit := limitParam(c, "limit", defaultNovelListLimit, maxNovelListLimit)
	offset := limitParam(c, "offset", 0, 1<<30)
	novels, err := nh.novelService.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"novels": novels})
}

// GET /novels/:id
func (nh *NovelHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	novel, err := nh.novelService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"novel": novel})
}

// POST /novels (multipart/form-data)
// fields: "title", "synopsis", "genres" (JSON array), optional "cover" file
func (nh *NovelHandler) Create(c *gin.Context) {
	title := c.PostForm("title")
	synopsis := c.PostForm("synopsis")
	var genres datatypes.JSON
	if raw := c.PostForm("genres"); raw != "" {
		genres = datatypes.JSON(raw)
	}

	var cover []byte
	if fh, err := c.FormFile("cover"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
			return
		}
		defer f.Close()
		cover, err = io.ReadAll(io.LimitReader(f, nh.maxCoverBytes+1))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "read_file_failed", err)
			return
		}
		if int64(len(cover)) > nh.maxCoverBytes {
			response.RespondError(c, http.StatusBadRequest, "file_too_large", nil)
			return
		}
	}

	novel, err := nh.novelService.Create(c.Request.Context(), title, synopsis, genres, cover)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"novel": novel})
}
