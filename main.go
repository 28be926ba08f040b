package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"karabox/config"
	"karabox/database"
	"karabox/routes"
	"karabox/services"
)

var db *gorm.DB

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found. Using default configuration.")
	}

	db, err = database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if os.Getenv("SEED_PLAYLOG") == "true" {
		if err := database.SeedPlayLog(db); err != nil {
			log.Printf("Warning: Failed to seed play log: %v", err)
		}
	}

	loader := services.NewCatalogLoader(config.Catalog.VideosDir, config.Catalog.CoversDir)
	catalog, err := loader.LoadFile(config.Catalog.CatalogPath)
	if err != nil {
		// A failed load leaves the catalog empty; the server still runs so
		// statistics and settings stay reachable.
		log.Printf("Failed to load catalog from %s: %v", config.Catalog.CatalogPath, err)
		catalog = loader.Build(nil)
	} else {
		log.Printf("Loaded %d videos from %s", catalog.Len(), config.Catalog.CatalogPath)
	}

	engine := services.NewSearchEngine(catalog, config.Search.PageSize, config.Search.MaxResults)
	playLog := services.NewPlayLogStore(db)
	tracker := services.NewPlaybackTracker(playLog)
	searcher := services.NewExternalSearcher(config.SearchClient())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.Static("/static", "./static")
	r.Static("/videos", config.Catalog.VideosDir)

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	routes.SetupRoutes(r, routes.Services{
		Loader:   loader,
		Engine:   engine,
		Catalog:  catalog,
		Tracker:  tracker,
		PlayLog:  playLog,
		Searcher: searcher,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database connection: %v", err)
	} else {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}

	log.Println("Server exited")
}
