package services

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"karabox/models"
)

// View modes: browsing the shuffled catalog vs an active search/filter.
const (
	ModeBrowse = "browse"
	ModeSearch = "search"
)

// ViewState is the current search state: mode, query text, selected genre
// and paging offset. It is not persisted across sessions.
type ViewState struct {
	Mode   string `json:"mode"`
	Query  string `json:"query"`
	Genre  string `json:"genre"`
	Offset int    `json:"offset"`
}

// PageResult is one batch of visible records plus paging metadata. Items is
// only the requested batch; the client appends batches for infinite scroll.
type PageResult struct {
	Items      []models.VideoRecord `json:"items"`
	Offset     int                  `json:"offset"`
	Total      int                  `json:"total"`
	HasMore    bool                 `json:"has_more"`
	MaxResults int                  `json:"max_results"`
	Mode       string               `json:"mode"`
	Query      string               `json:"query"`
	Genre      string               `json:"genre"`
}

// SearchEngine computes the visible subset of the catalog. In browse mode
// the catalog order is shuffled once per reset and served in fixed pages; in
// search mode the query and genre filter are applied in catalog order.
// Handlers run concurrently, so all state is mutex-guarded.
type SearchEngine struct {
	mu         sync.Mutex
	catalog    *Catalog
	pageSize   int
	maxResults int
	rng        *rand.Rand

	mode    string
	query   string
	genre   string
	offset  int
	results []models.VideoRecord
}

func NewSearchEngine(catalog *Catalog, pageSize, maxResults int) *SearchEngine {
	if pageSize <= 0 {
		pageSize = 40
	}
	if maxResults <= 0 {
		maxResults = 160
	}
	e := &SearchEngine{
		catalog:    catalog,
		pageSize:   pageSize,
		maxResults: maxResults,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	e.resetLocked()
	return e
}

// SetCatalog swaps in a freshly loaded catalog and resets the view.
func (e *SearchEngine) SetCatalog(catalog *Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog = catalog
	e.query = ""
	e.genre = ""
	e.resetLocked()
}

// SetGenre narrows subsequent results to videos whose genre list contains
// the given value; the empty string clears the filter. Returns the first
// page of the recomputed result set.
func (e *SearchEngine) SetGenre(genre string) PageResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.genre = genre
	return e.searchLocked(e.query, true)
}

// Search applies the query. reset=true recomputes the full result set and
// returns the first page; reset=false returns the next page of the current
// result set (infinite scroll).
func (e *SearchEngine) Search(query string, reset bool) PageResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchLocked(query, reset)
}

// NextPage returns the next batch for the current view.
func (e *SearchEngine) NextPage() PageResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchLocked(e.query, false)
}

// State returns a snapshot of the current view state.
func (e *SearchEngine) State() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ViewState{Mode: e.mode, Query: e.query, Genre: e.genre, Offset: e.offset}
}

func (e *SearchEngine) searchLocked(query string, reset bool) PageResult {
	query = strings.TrimSpace(query)

	if reset || query != e.query {
		e.query = query
		if query == "" && e.genre == "" {
			e.resetLocked()
		} else {
			e.mode = ModeSearch
			e.results = e.filter(query, e.genre)
			e.offset = 0
		}
	}

	start := e.offset
	end := start + e.pageSize
	if end > len(e.results) {
		end = len(e.results)
	}
	if start > end {
		start = end
	}
	items := e.results[start:end]
	e.offset = end

	return PageResult{
		Items:      items,
		Offset:     start,
		Total:      len(e.results),
		HasMore:    end < len(e.results),
		MaxResults: e.maxResults,
		Mode:       e.mode,
		Query:      e.query,
		Genre:      e.genre,
	}
}

// resetLocked re-enters browse mode with a fresh uniform in-place shuffle of
// the catalog order.
func (e *SearchEngine) resetLocked() {
	e.mode = ModeBrowse
	e.offset = 0

	records := e.catalog.Records()
	shuffled := make([]models.VideoRecord, len(records))
	copy(shuffled, records)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	e.results = shuffled
}

// filter applies the genre filter and tokenized query in catalog order. A
// record matches when every token is a case-insensitive substring of at
// least one of its searchable fields.
func (e *SearchEngine) filter(query, genre string) []models.VideoRecord {
	tokens := strings.Fields(strings.ToLower(query))

	var out []models.VideoRecord
	for _, rec := range e.catalog.Records() {
		if genre != "" && !rec.Genres.Contains(genre) {
			continue
		}
		if matchesTokens(rec, tokens) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesTokens(rec models.VideoRecord, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}

	fields := []string{
		strings.ToLower(rec.Filename),
		strings.ToLower(rec.Artist),
		strings.ToLower(rec.Title),
		rec.SearchText,
	}

	for _, token := range tokens {
		found := false
		for _, field := range fields {
			if strings.Contains(field, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
