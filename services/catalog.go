package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"karabox/models"
)

// UnknownGenre is the sentinel genre for descriptors without one.
const UnknownGenre = "Unknown"

// UnknownSongTitle is shown when a descriptor carries no usable name at all.
const UnknownSongTitle = "Unknown Song"

// Catalog is the full in-memory set of playable video records for the
// session. Records keep the input order of the catalog file and are never
// mutated after load.
type Catalog struct {
	records []models.VideoRecord
	genres  []string
}

// CatalogLoader builds a Catalog from a descriptor file. The dirs are the
// URL prefixes the derived file and cover paths point into.
type CatalogLoader struct {
	VideosDir string
	CoversDir string
}

func NewCatalogLoader(videosDir, coversDir string) *CatalogLoader {
	if videosDir == "" {
		videosDir = "videos"
	}
	if coversDir == "" {
		coversDir = "covers"
	}
	return &CatalogLoader{VideosDir: videosDir, CoversDir: coversDir}
}

// LoadFile reads and parses the catalog file. Any read or parse error
// returns an error and no catalog: a partial catalog is never exposed.
func (l *CatalogLoader) LoadFile(filePath string) (*Catalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return l.Load(data)
}

// Load parses raw descriptor JSON and normalizes every entry.
func (l *CatalogLoader) Load(data []byte) (*Catalog, error) {
	var descriptors []models.VideoDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return l.Build(descriptors), nil
}

// Build normalizes descriptors into records, preserving input order, and
// collects the distinct genre set for the filter menu.
func (l *CatalogLoader) Build(descriptors []models.VideoDescriptor) *Catalog {
	records := make([]models.VideoRecord, 0, len(descriptors))
	genreSet := make(map[string]bool)

	for _, d := range descriptors {
		rec := l.Normalize(d)
		records = append(records, rec)
		for _, g := range rec.Genres {
			genreSet[g] = true
		}
	}

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	return &Catalog{records: records, genres: genres}
}

// Normalize derives the display record for a single descriptor.
func (l *CatalogLoader) Normalize(d models.VideoDescriptor) models.VideoRecord {
	artist := strings.TrimSpace(d.Artist)
	title := strings.TrimSpace(d.Title)

	var display string
	switch {
	case artist != "" && title != "":
		display = artist + " - " + title
	case title != "" && strings.Contains(title, " - "):
		// Derive artist/title from the first separator occurrence.
		parts := strings.SplitN(title, " - ", 2)
		artist, title = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		display = artist + " - " + title
	case title != "":
		display = title
	case artist != "":
		display = artist
	default:
		display = strings.TrimSuffix(d.Filename, path.Ext(d.Filename))
		if display == "" {
			display = UnknownSongTitle
		}
		title = display
	}

	searchText := strings.ToLower(strings.TrimSpace(artist + " " + title))

	videoFile := d.VideoFilename
	if videoFile == "" {
		videoFile = d.Filename + ".mp4"
	}
	coverFile := d.CoverFilename
	if coverFile == "" {
		coverFile = d.Filename + ".jpg"
	}

	genres := d.Genre
	if len(genres) == 0 {
		genres = models.GenreList{UnknownGenre}
	}

	return models.VideoRecord{
		Filename:        d.Filename,
		FilePath:        path.Join(l.VideosDir, videoFile),
		CoverPath:       path.Join(l.CoversDir, coverFile),
		Artist:          artist,
		Title:           title,
		DisplayTitle:    display,
		SearchText:      searchText,
		Genres:          genres,
		DurationSeconds: d.DurationSeconds,
		HasCover:        d.HasCover || d.CoverFilename != "",
	}
}

// Records returns all records in catalog-file order.
func (c *Catalog) Records() []models.VideoRecord {
	return c.records
}

// Genres returns the distinct genre set, sorted, for the filter menu.
func (c *Catalog) Genres() []string {
	return c.genres
}

// Len returns the number of records in the catalog.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Find returns the record with the given filename.
func (c *Catalog) Find(filename string) (models.VideoRecord, bool) {
	for _, r := range c.records {
		if r.Filename == filename {
			return r, true
		}
	}
	return models.VideoRecord{}, false
}
