package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"karabox/services"
	"karabox/utils"
)

// PlaybackController exposes the playback session tracker. Only one video
// is active at a time; the tracker enforces that.
type PlaybackController struct {
	tracker *services.PlaybackTracker
}

func NewPlaybackController(tracker *services.PlaybackTracker) *PlaybackController {
	return &PlaybackController{tracker: tracker}
}

// Start begins tracking a video, implicitly tearing down any live session.
func (c *PlaybackController) Start(ctx *gin.Context) {
	var req struct {
		Title        string `json:"title" binding:"required"`
		TotalSeconds int    `json:"total_seconds"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	session := c.tracker.Start(req.Title, req.TotalSeconds)
	ctx.JSON(http.StatusOK, gin.H{"status": "Playback started", "session": session})
}

// Pause records the position; pausing is deliberately not logged.
func (c *PlaybackController) Pause(ctx *gin.Context) {
	var req struct {
		Position int `json:"position"`
	}
	_ = ctx.ShouldBindJSON(&req)

	c.tracker.Pause(req.Position)
	ctx.JSON(http.StatusOK, gin.H{"status": "Playback paused"})
}

// Resume continues a paused session.
func (c *PlaybackController) Resume(ctx *gin.Context) {
	var req struct {
		Position int `json:"position"`
	}
	_ = ctx.ShouldBindJSON(&req)

	c.tracker.Resume(req.Position)
	ctx.JSON(http.StatusOK, gin.H{"status": "Playback resumed"})
}

// Ended handles the natural end of the media.
func (c *PlaybackController) Ended(ctx *gin.Context) {
	var req struct {
		TotalSeconds int `json:"total_seconds"`
	}
	_ = ctx.ShouldBindJSON(&req)

	c.tracker.End(req.TotalSeconds)
	ctx.JSON(http.StatusOK, gin.H{"status": "Playback ended"})
}

// Restart replays the active video from zero and logs a new start marker.
func (c *PlaybackController) Restart(ctx *gin.Context) {
	session, ok := c.tracker.Restart()
	if !ok {
		utils.BadRequest(ctx, "No active playback session")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "Playback restarted", "session": session})
}

// Stop tears down any active session, logging partial progress when a start
// was logged and the video never reached its end.
func (c *PlaybackController) Stop(ctx *gin.Context) {
	var req struct {
		Position     int `json:"position"`
		TotalSeconds int `json:"total_seconds"`
	}
	_ = ctx.ShouldBindJSON(&req)

	c.tracker.Stop(req.Position, req.TotalSeconds)
	ctx.JSON(http.StatusOK, gin.H{"status": "Playback stopped"})
}

// UpdateProgress records the client-reported position.
func (c *PlaybackController) UpdateProgress(ctx *gin.Context) {
	var req struct {
		Position int `json:"position"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	c.tracker.UpdatePosition(req.Position)
	ctx.JSON(http.StatusOK, gin.H{"status": "Progress saved"})
}

// GetState returns the tracker state and active session snapshot.
func (c *PlaybackController) GetState(ctx *gin.Context) {
	state, session := c.tracker.State()
	ctx.JSON(http.StatusOK, gin.H{
		"state":      state,
		"is_playing": state == services.StatePlaying,
		"is_paused":  state == services.StatePaused,
		"session":    session,
	})
}
