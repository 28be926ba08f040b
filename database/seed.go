package database

import (
	"log"
	"time"

	"gorm.io/gorm"

	"karabox/models"
)

// SeedPlayLog populates the play log with sample data for demos and manual
// testing. Skips seeding when entries already exist.
func SeedPlayLog(db *gorm.DB) error {
	var count int64
	db.Model(&models.PlayLogEntry{}).Count(&count)
	if count > 0 {
		log.Println("Play log already seeded, skipping...")
		return nil
	}

	log.Println("Seeding play log with sample data...")

	now := time.Now()
	entries := []models.PlayLogEntry{
		models.NewPlayLogEntry("Queen - Bohemian Rhapsody", now.Add(-26*time.Hour), 0, 0, false),
		models.NewPlayLogEntry("Queen - Bohemian Rhapsody", now.Add(-26*time.Hour), 354, 354, true),
		models.NewPlayLogEntry("ABBA - Dancing Queen", now.Add(-20*time.Hour), 0, 0, false),
		models.NewPlayLogEntry("ABBA - Dancing Queen", now.Add(-20*time.Hour), 45, 230, false),
		models.NewPlayLogEntry("Nena - 99 Luftballons", now.Add(-3*time.Hour), 0, 0, false),
		models.NewPlayLogEntry("Nena - 99 Luftballons", now.Add(-3*time.Hour), 12, 233, false),
		models.NewPlayLogEntry("Journey - Don't Stop Believin'", now.Add(-1*time.Hour), 0, 0, false),
		models.NewPlayLogEntry("Journey - Don't Stop Believin'", now.Add(-1*time.Hour), 250, 250, true),
	}

	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d play log entries", len(entries))
	return nil
}
