package controllers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"karabox/services"
	"karabox/utils"
)

// CatalogController serves the video catalog, the search engine and the
// cover images.
type CatalogController struct {
	loader      *services.CatalogLoader
	engine      *services.SearchEngine
	catalogPath string

	coversDir     string
	fallbackCover string

	mu      sync.RWMutex
	catalog *services.Catalog
	loadErr error
}

func NewCatalogController(loader *services.CatalogLoader, engine *services.SearchEngine, catalog *services.Catalog, catalogPath, coversDir, fallbackCover string) *CatalogController {
	return &CatalogController{
		loader:        loader,
		engine:        engine,
		catalog:       catalog,
		catalogPath:   catalogPath,
		coversDir:     coversDir,
		fallbackCover: fallbackCover,
	}
}

// GetVideos returns the next batch of the current view. reset=true starts
// over (browse mode reshuffles the catalog order).
func (c *CatalogController) GetVideos(ctx *gin.Context) {
	reset, _ := strconv.ParseBool(ctx.DefaultQuery("reset", "false"))

	var page services.PageResult
	if reset {
		page = c.engine.Search("", true)
	} else {
		page = c.engine.NextPage()
	}
	ctx.JSON(http.StatusOK, page)
}

// SearchVideos applies the query. reset=false appends the next page of the
// current result set for infinite scroll.
func (c *CatalogController) SearchVideos(ctx *gin.Context) {
	query := ctx.Query("q")
	reset, _ := strconv.ParseBool(ctx.DefaultQuery("reset", "true"))

	page := c.engine.Search(query, reset)
	ctx.JSON(http.StatusOK, page)
}

// SetGenre narrows results to the given genre; an empty value clears the
// filter. Returns the first page of the recomputed view.
func (c *CatalogController) SetGenre(ctx *gin.Context) {
	var req struct {
		Genre string `json:"genre"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	page := c.engine.SetGenre(req.Genre)
	ctx.JSON(http.StatusOK, page)
}

// GetGenres returns the distinct genre set for the filter menu.
func (c *CatalogController) GetGenres(ctx *gin.Context) {
	c.mu.RLock()
	genres := c.catalog.Genres()
	c.mu.RUnlock()

	ctx.JSON(http.StatusOK, gin.H{"genres": genres})
}

// GetStatus reports catalog size and whether the last load failed.
func (c *CatalogController) GetStatus(ctx *gin.Context) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := gin.H{
		"count":  c.catalog.Len(),
		"loaded": c.loadErr == nil,
	}
	if c.loadErr != nil {
		status["error"] = c.loadErr.Error()
	}
	ctx.JSON(http.StatusOK, status)
}

// Reload re-reads the catalog file. On failure the previous catalog stays
// in place and the error is reported.
func (c *CatalogController) Reload(ctx *gin.Context) {
	catalog, err := c.loader.LoadFile(c.catalogPath)
	if err != nil {
		log.Printf("Catalog reload failed: %v", err)
		c.mu.Lock()
		c.loadErr = err
		c.mu.Unlock()
		utils.InternalError(ctx, "Failed to reload catalog")
		return
	}

	c.mu.Lock()
	c.catalog = catalog
	c.loadErr = nil
	c.mu.Unlock()
	c.engine.SetCatalog(catalog)

	ctx.JSON(http.StatusOK, gin.H{"status": "Catalog reloaded", "count": catalog.Len()})
}

// GetCover serves a cover image, substituting the fallback image when the
// referenced file is missing. Missing covers are not an error.
func (c *CatalogController) GetCover(ctx *gin.Context) {
	name := filepath.Base(ctx.Param("filename"))
	coverPath := filepath.Join(c.coversDir, name)

	if _, err := os.Stat(coverPath); err != nil {
		ctx.File(c.fallbackCover)
		return
	}
	ctx.File(coverPath)
}
