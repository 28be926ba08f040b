package models

import (
	"encoding/json"
	"strings"
	"time"
)

// GenreList tolerates the two shapes the catalog file uses for genres:
// a single string or a list of strings.
type GenreList []string

func (g *GenreList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			*g = nil
			return nil
		}
		*g = GenreList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*g = GenreList(many)
	return nil
}

// Contains reports whether the list holds the given genre.
func (g GenreList) Contains(genre string) bool {
	for _, v := range g {
		if v == genre {
			return true
		}
	}
	return false
}

// VideoDescriptor is one entry of the catalog file produced by the metadata
// scripts. Only Filename is required; everything else is best effort.
type VideoDescriptor struct {
	Filename        string    `json:"filename"`
	Artist          string    `json:"artist,omitempty"`
	Title           string    `json:"title,omitempty"`
	Genre           GenreList `json:"genre,omitempty"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	VideoFilename   string    `json:"video_filename,omitempty"`
	CoverFilename   string    `json:"cover_filename,omitempty"`
	HasCover        bool      `json:"has_cover,omitempty"`
}

// VideoRecord is the display record derived from a descriptor. Records are
// built once at catalog load and never mutated.
type VideoRecord struct {
	Filename        string    `json:"filename"`
	FilePath        string    `json:"file_path"`
	CoverPath       string    `json:"cover_path"`
	Artist          string    `json:"artist"`
	Title           string    `json:"title"`
	DisplayTitle    string    `json:"display_title"`
	SearchText      string    `json:"-"`
	Genres          GenreList `json:"genres"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	HasCover        bool      `json:"has_cover"`
}

// PlayLogEntry is one tracked playback event. The log is append-only:
// entries are never edited or removed individually, only bulk-cleared,
// exported or imported.
type PlayLogEntry struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Title         string    `gorm:"not null;index" json:"title"`
	StartedAt     time.Time `gorm:"not null" json:"started_at"`
	PlayedSeconds int       `gorm:"not null" json:"played_seconds"`
	TotalSeconds  int       `gorm:"not null" json:"total_seconds"`
	Completed     bool      `gorm:"not null" json:"completed"`
	PlayPercent   float64   `gorm:"not null" json:"play_percent"`
	CreatedAt     time.Time `json:"-"`
}

// NewPlayLogEntry derives the play percentage from the given counters.
// A zero total duration yields a zero percentage.
func NewPlayLogEntry(title string, startedAt time.Time, played, total int, completed bool) PlayLogEntry {
	percent := 0.0
	if total > 0 {
		percent = float64(played) / float64(total) * 100
	}
	return PlayLogEntry{
		Title:         title,
		StartedAt:     startedAt,
		PlayedSeconds: played,
		TotalSeconds:  total,
		Completed:     completed,
		PlayPercent:   percent,
	}
}

// SongRequest is a user-submitted wish for a song missing from the catalog.
type SongRequest struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Artist    string    `json:"artist"`
	Notes     string    `json:"notes"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

// AppConfig holds the visual settings the client reads at startup. Exactly
// one row exists.
type AppConfig struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Theme     string    `gorm:"size:100" json:"theme"`
	AppTitle  string    `gorm:"size:255" json:"app_title"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
