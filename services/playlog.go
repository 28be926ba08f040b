package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"karabox/models"
)

// PlayLogStore is the append-only store for tracked playback events. Every
// append is flushed immediately. When a database write fails the store
// degrades to in-memory-only logging: entries are retained for the session
// and the degraded flag is surfaced through the health endpoint.
type PlayLogStore struct {
	mu       sync.Mutex
	db       *gorm.DB
	degraded bool
	overlay  []models.PlayLogEntry
}

func NewPlayLogStore(db *gorm.DB) *PlayLogStore {
	return &PlayLogStore{db: db}
}

// Append persists one log entry. A write failure never loses the entry.
func (s *PlayLogStore) Append(entry models.PlayLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		s.overlay = append(s.overlay, entry)
		return
	}

	entry.ID = 0
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("WARNING: play log write failed, switching to in-memory logging: %v", err)
		s.degraded = true
		s.overlay = append(s.overlay, entry)
	}
}

// Entries returns the full ordered log: persisted entries in insertion
// order, then any in-memory overlay accumulated after a storage failure.
func (s *PlayLogStore) Entries() ([]models.PlayLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var persisted []models.PlayLogEntry
	if err := s.db.Order("id ASC").Find(&persisted).Error; err != nil {
		if s.degraded {
			return append([]models.PlayLogEntry(nil), s.overlay...), nil
		}
		return nil, fmt.Errorf("failed to read play log: %w", err)
	}

	return append(persisted, s.overlay...), nil
}

// Clear removes the whole log. Entries are never deleted individually.
func (s *PlayLogStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Where("1 = 1").Delete(&models.PlayLogEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear play log: %w", err)
	}
	s.overlay = nil
	s.degraded = false
	return nil
}

// Export serializes the ordered log to JSON. Exporting and re-importing
// reproduces an identical sequence of entries.
func (s *PlayLogStore) Export() ([]byte, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.PlayLogEntry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Import replaces the log wholesale with the given serialized entries.
func (s *PlayLogStore) Import(data []byte) (int, error) {
	var entries []models.PlayLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("invalid play log data: %w", err)
	}

	if err := s.Clear(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range entries {
		entries[i].ID = 0
		if err := s.db.Create(&entries[i]).Error; err != nil {
			return i, fmt.Errorf("failed to import play log entry %d: %w", i, err)
		}
	}
	return len(entries), nil
}

// Degraded reports whether the store has fallen back to in-memory logging.
func (s *PlayLogStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}
