package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"karabox/models"
	"karabox/utils"
)

// SettingsController serves the visual options the client reads at startup.
type SettingsController struct {
	db *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

// Get returns the single settings row.
func (c *SettingsController) Get(ctx *gin.Context) {
	var cfg models.AppConfig
	if err := c.db.First(&cfg).Error; err != nil {
		utils.InternalError(ctx, "Failed to load settings")
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// Update changes theme and application title.
func (c *SettingsController) Update(ctx *gin.Context) {
	var req struct {
		Theme    string `json:"theme"`
		AppTitle string `json:"app_title"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	var cfg models.AppConfig
	if err := c.db.First(&cfg).Error; err != nil {
		utils.InternalError(ctx, "Failed to load settings")
		return
	}

	if req.Theme != "" {
		cfg.Theme = req.Theme
	}
	if req.AppTitle != "" {
		cfg.AppTitle = req.AppTitle
	}
	if err := c.db.Save(&cfg).Error; err != nil {
		utils.InternalError(ctx, "Failed to save settings")
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}
