package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"karabox/models"
)

// RequestService stores user-submitted wishes for songs missing from the
// catalog.
type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// Create appends a song request unless one with the same case-insensitive
// (title, artist) pair already exists. The second return value reports
// whether a new request was created.
func (s *RequestService) Create(title, artist, notes, query string) (models.SongRequest, bool, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" {
		return models.SongRequest{}, false, fmt.Errorf("title is required")
	}

	var existing models.SongRequest
	err := s.db.Where("LOWER(title) = ? AND LOWER(artist) = ?",
		strings.ToLower(title), strings.ToLower(artist)).First(&existing).Error
	if err == nil {
		return existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return models.SongRequest{}, false, fmt.Errorf("failed to check existing requests: %w", err)
	}

	request := models.SongRequest{
		Title:  title,
		Artist: artist,
		Notes:  notes,
		Query:  query,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return models.SongRequest{}, false, fmt.Errorf("failed to save song request: %w", err)
	}
	return request, true, nil
}

// List returns all song requests, newest first.
func (s *RequestService) List() ([]models.SongRequest, error) {
	var requests []models.SongRequest
	if err := s.db.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch song requests: %w", err)
	}
	return requests, nil
}
