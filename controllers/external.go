package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"karabox/services"
	"karabox/utils"
)

// ExternalController resolves videos on external platforms for songs the
// local catalog cannot serve.
type ExternalController struct {
	searcher *services.ExternalSearcher
	tracker  *services.PlaybackTracker
}

func NewExternalController(searcher *services.ExternalSearcher, tracker *services.PlaybackTracker) *ExternalController {
	return &ExternalController{searcher: searcher, tracker: tracker}
}

// Lookup fetches metadata for an external video URL or ID.
func (c *ExternalController) Lookup(ctx *gin.Context) {
	input := ctx.Query("url")
	if input == "" {
		utils.BadRequest(ctx, "url query parameter is required")
		return
	}

	video, err := c.searcher.Lookup(ctx.Request.Context(), input)
	if err != nil {
		utils.NotFound(ctx, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, video)
}

// Play switches to an external playback source. Any tracked session is torn
// down first so partial progress is logged before the takeover.
func (c *ExternalController) Play(ctx *gin.Context) {
	var req struct {
		URL          string `json:"url" binding:"required"`
		Position     int    `json:"position"`
		TotalSeconds int    `json:"total_seconds"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	c.tracker.Stop(req.Position, req.TotalSeconds)

	video, err := c.searcher.Lookup(ctx.Request.Context(), req.URL)
	if err != nil {
		utils.NotFound(ctx, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "External playback", "video": video})
}
