package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"karabox/config"
	"karabox/controllers"
	"karabox/database"
	"karabox/services"
)

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; media-src 'self'; frame-src https://www.youtube.com https://www.youtube-nocookie.com")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// Services bundles the application components the routes are wired to.
type Services struct {
	Loader   *services.CatalogLoader
	Engine   *services.SearchEngine
	Catalog  *services.Catalog
	Tracker  *services.PlaybackTracker
	PlayLog  *services.PlayLogStore
	Searcher *services.ExternalSearcher
}

func SetupRoutes(r *gin.Engine, svc Services) {
	db := database.GetDB()

	catalogController := controllers.NewCatalogController(
		svc.Loader, svc.Engine, svc.Catalog,
		config.Catalog.CatalogPath, config.Catalog.CoversDir, config.Catalog.FallbackCover)
	playbackController := controllers.NewPlaybackController(svc.Tracker)
	statsController := controllers.NewStatsController(svc.PlayLog)
	requestController := controllers.NewRequestController(services.NewRequestService(db))
	settingsController := controllers.NewSettingsController(db)
	externalController := controllers.NewExternalController(svc.Searcher, svc.Tracker)

	r.Use(SecurityHeadersMiddleware())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(503, gin.H{
				"status":    "unhealthy",
				"error":     "database connection error",
				"timestamp": time.Now().Unix(),
			})
			return
		}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(pingCtx); err != nil {
			c.JSON(503, gin.H{
				"status":    "unhealthy",
				"error":     "database ping failed",
				"timestamp": time.Now().Unix(),
			})
			return
		}

		c.JSON(200, gin.H{
			"status":           "healthy",
			"database":         "connected",
			"playlog_degraded": svc.PlayLog.Degraded(),
			"timestamp":        time.Now().Unix(),
		})
	})

	r.GET("/api/videos", catalogController.GetVideos)
	r.GET("/api/videos/search", catalogController.SearchVideos)
	r.POST("/api/videos/genre", catalogController.SetGenre)
	r.GET("/api/genres", catalogController.GetGenres)
	r.GET("/api/catalog/status", catalogController.GetStatus)
	r.POST("/api/catalog/reload", catalogController.Reload)
	r.GET("/covers/:filename", catalogController.GetCover)

	r.POST("/api/playback/start", playbackController.Start)
	r.POST("/api/playback/pause", playbackController.Pause)
	r.POST("/api/playback/resume", playbackController.Resume)
	r.POST("/api/playback/ended", playbackController.Ended)
	r.POST("/api/playback/restart", playbackController.Restart)
	r.POST("/api/playback/stop", playbackController.Stop)
	r.POST("/api/playback/update-progress", playbackController.UpdateProgress)
	r.GET("/api/playback/state", playbackController.GetState)

	r.GET("/api/stats", statsController.GetStatistics)
	r.GET("/api/playlog", statsController.GetPlayLog)
	r.GET("/api/playlog/export", statsController.Export)
	r.POST("/api/playlog/import", statsController.Import)
	r.DELETE("/api/playlog", statsController.Clear)

	r.POST("/api/requests", requestController.Create)
	r.GET("/api/requests", requestController.List)

	r.GET("/api/settings", settingsController.Get)
	r.PUT("/api/settings", settingsController.Update)

	r.GET("/api/external/lookup", externalController.Lookup)
	r.POST("/api/external/play", externalController.Play)
}
