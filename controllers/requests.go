package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"karabox/services"
	"karabox/utils"
)

// RequestController records song wishes for titles the catalog is missing.
type RequestController struct {
	requests *services.RequestService
}

func NewRequestController(requests *services.RequestService) *RequestController {
	return &RequestController{requests: requests}
}

// Create stores a song request. Duplicate (title, artist) pairs are
// answered with the existing request instead of a new row.
func (c *RequestController) Create(ctx *gin.Context) {
	var req struct {
		Title  string `json:"title" binding:"required"`
		Artist string `json:"artist"`
		Notes  string `json:"notes"`
		Query  string `json:"query"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	request, created, err := c.requests.Create(req.Title, req.Artist, req.Notes, req.Query)
	if err != nil {
		utils.InternalError(ctx, err.Error())
		return
	}
	if !created {
		ctx.JSON(http.StatusOK, gin.H{"status": "Song already requested", "request": request})
		return
	}
	utils.Created(ctx, gin.H{"status": "Song request saved", "request": request})
}

// List returns all song requests, newest first.
func (c *RequestController) List(ctx *gin.Context) {
	requests, err := c.requests.List()
	if err != nil {
		utils.InternalError(ctx, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"requests": requests})
}
