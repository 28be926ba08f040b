package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"karabox/models"
	"karabox/services"
)

func newStatsRouter(t *testing.T) (*gin.Engine, *services.PlayLogStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.PlayLogEntry{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	store := services.NewPlayLogStore(db)
	controller := NewStatsController(store)

	r := gin.New()
	r.GET("/api/stats", controller.GetStatistics)
	r.GET("/api/playlog", controller.GetPlayLog)
	r.GET("/api/playlog/export", controller.Export)
	r.POST("/api/playlog/import", controller.Import)
	r.DELETE("/api/playlog", controller.Clear)
	return r, store
}

func TestStatsEndpoint(t *testing.T) {
	r, store := newStatsRouter(t)
	now := time.Now()

	store.Append(models.NewPlayLogEntry("Song A", now, 10, 100, false))
	store.Append(models.NewPlayLogEntry("Song A", now, 100, 100, true))

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d: %s", w.Code, w.Body.String())
	}

	var stats services.Statistics
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse statistics: %v", err)
	}
	if stats.TotalTitles != 1 {
		t.Errorf("TotalTitles = %d, want 1", stats.TotalTitles)
	}
	if stats.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d, want 50", stats.CompletionRate)
	}
	if stats.TopTitle != "Song A" {
		t.Errorf("TopTitle = %q, want Song A", stats.TopTitle)
	}
}

func TestPlayLogExportImportEndpoints(t *testing.T) {
	r, store := newStatsRouter(t)
	store.Append(models.NewPlayLogEntry("Song", time.Now(), 50, 100, false))

	req := httptest.NewRequest("GET", "/api/playlog/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("export should set a download disposition")
	}
	exported := w.Body.Bytes()

	req = httptest.NewRequest("POST", "/api/playlog/import", bytes.NewReader(exported))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("import = %d: %s", w.Code, w.Body.String())
	}

	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Song" {
		t.Errorf("entries after import = %v", entries)
	}
}

func TestPlayLogClearEndpoint(t *testing.T) {
	r, store := newStatsRouter(t)
	store.Append(models.NewPlayLogEntry("Song", time.Now(), 50, 100, false))

	req := httptest.NewRequest("DELETE", "/api/playlog", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("clear = %d", w.Code)
	}

	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after clear, want 0", len(entries))
	}
}
