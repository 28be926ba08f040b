package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"karabox/models"
	"karabox/services"
)

type logRecorder struct {
	entries []models.PlayLogEntry
}

func (r *logRecorder) Append(entry models.PlayLogEntry) {
	r.entries = append(r.entries, entry)
}

func newPlaybackRouter() (*gin.Engine, *logRecorder) {
	gin.SetMode(gin.TestMode)
	rec := &logRecorder{}
	controller := NewPlaybackController(services.NewPlaybackTracker(rec))

	r := gin.New()
	r.POST("/api/playback/start", controller.Start)
	r.POST("/api/playback/pause", controller.Pause)
	r.POST("/api/playback/resume", controller.Resume)
	r.POST("/api/playback/ended", controller.Ended)
	r.POST("/api/playback/restart", controller.Restart)
	r.POST("/api/playback/stop", controller.Stop)
	r.GET("/api/playback/state", controller.GetState)
	return r, rec
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlaybackStartEndpoint(t *testing.T) {
	r, rec := newPlaybackRouter()

	w := postJSON(t, r, "/api/playback/start", gin.H{"title": "Song", "total_seconds": 200})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(rec.entries) != 1 {
		t.Errorf("got %d log entries, want 1 start marker", len(rec.entries))
	}
}

func TestPlaybackStartRequiresTitle(t *testing.T) {
	r, rec := newPlaybackRouter()

	w := postJSON(t, r, "/api/playback/start", gin.H{"total_seconds": 200})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(rec.entries) != 0 {
		t.Errorf("invalid start logged %d entries, want 0", len(rec.entries))
	}
}

func TestPlaybackLifecycleOverHTTP(t *testing.T) {
	r, rec := newPlaybackRouter()

	postJSON(t, r, "/api/playback/start", gin.H{"title": "Song", "total_seconds": 200})
	postJSON(t, r, "/api/playback/pause", gin.H{"position": 30})
	postJSON(t, r, "/api/playback/resume", gin.H{"position": 30})
	postJSON(t, r, "/api/playback/ended", gin.H{"total_seconds": 200})

	// Resuming 30s in made the session a continuation so the natural end
	// logs nothing: only the start marker remains.
	if len(rec.entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(rec.entries))
	}

	req := httptest.NewRequest("GET", "/api/playback/state", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var state struct {
		State     string `json:"state"`
		IsPlaying bool   `json:"is_playing"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to parse state: %v", err)
	}
	if state.State != "idle" || state.IsPlaying {
		t.Errorf("state after end = %+v, want idle", state)
	}
}

func TestPlaybackRestartEndpointWithoutSession(t *testing.T) {
	r, _ := newPlaybackRouter()

	w := postJSON(t, r, "/api/playback/restart", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without an active session", w.Code)
	}
}

func TestPlaybackStopLogsPartial(t *testing.T) {
	r, rec := newPlaybackRouter()

	postJSON(t, r, "/api/playback/start", gin.H{"title": "Song", "total_seconds": 200})
	postJSON(t, r, "/api/playback/stop", gin.H{"position": 80, "total_seconds": 200})

	if len(rec.entries) != 2 {
		t.Fatalf("got %d entries, want start + partial", len(rec.entries))
	}
	partial := rec.entries[1]
	if partial.PlayedSeconds != 80 || partial.Completed {
		t.Errorf("partial = %+v, want played=80 completed=false", partial)
	}
}
