package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"karabox/services"
	"karabox/utils"
)

// StatsController serves the derived statistics and the raw play log.
type StatsController struct {
	store *services.PlayLogStore
}

func NewStatsController(store *services.PlayLogStore) *StatsController {
	return &StatsController{store: store}
}

// GetStatistics recomputes the full statistics from the ordered log.
func (c *StatsController) GetStatistics(ctx *gin.Context) {
	entries, err := c.store.Entries()
	if err != nil {
		utils.InternalError(ctx, "Failed to read play log")
		return
	}
	ctx.JSON(http.StatusOK, services.Aggregate(entries, time.Now()))
}

// GetPlayLog returns the full ordered log.
func (c *StatsController) GetPlayLog(ctx *gin.Context) {
	entries, err := c.store.Entries()
	if err != nil {
		utils.InternalError(ctx, "Failed to read play log")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"entries": entries, "degraded": c.store.Degraded()})
}

// Export serializes the log as a downloadable JSON file.
func (c *StatsController) Export(ctx *gin.Context) {
	data, err := c.store.Export()
	if err != nil {
		utils.InternalError(ctx, "Failed to export play log")
		return
	}

	filename := "playlog-" + time.Now().Format("2006-01-02") + ".json"
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "application/json", data)
}

// Import replaces the log wholesale with the uploaded entries.
func (c *StatsController) Import(ctx *gin.Context) {
	data, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		utils.BadRequest(ctx, "Failed to read request body")
		return
	}

	count, err := c.store.Import(data)
	if err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "Play log imported", "count": count})
}

// Clear removes the whole log.
func (c *StatsController) Clear(ctx *gin.Context) {
	if err := c.store.Clear(); err != nil {
		utils.InternalError(ctx, "Failed to clear play log")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "Play log cleared"})
}
