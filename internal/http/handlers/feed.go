package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moonquill/moonquill-backend/internal/http/response"
	"github.com/moonquill/moonquill-backend/internal/services"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

type FeedHandler struct {
	feedService services.FeedService
}

func NewFeedHandler(feedService services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GET /novels/latest-updates?limit=N
func (fh *FeedHandler) LatestUpdates(c *gin.Context) {
	limit := limitParam(c, "limit", defaultFeedLimit, maxFeedLimit)
	entries, err := fh.feedService.LatestUpdates(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, entries)
}

// limitParam reads a positive integer query parameter, falling back to def
// on anything non-numeric or out of range, and capping at max.
func limitParam(c *gin.Context, name string, def, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
