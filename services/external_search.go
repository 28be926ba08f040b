package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"
)

// ExternalVideo is the metadata of an embeddable video found outside the
// local catalog.
type ExternalVideo struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelName  string `json:"channel_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
}

// ExternalSearcher resolves videos on external platforms for songs the local
// catalog cannot serve. Lookups are rate limited to stay polite.
type ExternalSearcher struct {
	httpClient  *http.Client
	userAgent   string
	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func NewExternalSearcher(client *http.Client) *ExternalSearcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ExternalSearcher{
		httpClient:  client,
		userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		minInterval: time.Second,
	}
}

// waitForRateLimit waits until enough time has passed since the last request
func (s *ExternalSearcher) waitForRateLimit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Since(s.lastRequest)
	if elapsed < s.minInterval {
		time.Sleep(s.minInterval - elapsed)
	}
	s.lastRequest = time.Now()
}

// Lookup fetches metadata for a video URL or bare video ID. Duration comes
// from noembed.com; on failure the plain oEmbed endpoint is tried, which
// carries no duration.
func (s *ExternalSearcher) Lookup(ctx context.Context, input string) (*ExternalVideo, error) {
	videoID := ExtractVideoID(input)
	if videoID == "" && IsValidVideoID(input) {
		videoID = input
	}
	if videoID == "" {
		return nil, fmt.Errorf("no video ID found in %q", input)
	}

	s.waitForRateLimit()

	video, err := s.fetchNoembed(ctx, videoID)
	if err == nil {
		return video, nil
	}
	return s.fetchOEmbed(ctx, videoID)
}

func (s *ExternalSearcher) fetchNoembed(ctx context.Context, videoID string) (*ExternalVideo, error) {
	noembedURL := fmt.Sprintf("https://noembed.com/embed?url=https://www.youtube.com/watch?v=%s", videoID)

	body, err := s.get(ctx, noembedURL)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
		Duration     int    `json:"duration"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse noembed response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("noembed error: %s", resp.Error)
	}

	return &ExternalVideo{
		VideoID:      videoID,
		Title:        resp.Title,
		ChannelName:  resp.AuthorName,
		ThumbnailURL: resp.ThumbnailURL,
		Duration:     resp.Duration,
	}, nil
}

func (s *ExternalSearcher) fetchOEmbed(ctx context.Context, videoID string) (*ExternalVideo, error) {
	oembedURL := fmt.Sprintf("https://www.youtube.com/oembed?url=https://www.youtube.com/watch?v=%s&format=json", videoID)

	body, err := s.get(ctx, oembedURL)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse oEmbed response: %w", err)
	}

	return &ExternalVideo{
		VideoID:      videoID,
		Title:        resp.Title,
		ChannelName:  resp.AuthorName,
		ThumbnailURL: resp.ThumbnailURL,
	}, nil
}

func (s *ExternalSearcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// videoIDPatterns matches the common YouTube URL formats.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^&]*&)*v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID extracts a video ID from the supported URL formats.
func ExtractVideoID(input string) string {
	for _, pattern := range videoIDPatterns {
		if matches := pattern.FindStringSubmatch(input); len(matches) > 1 {
			return matches[1]
		}
	}
	return ""
}

var validVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// IsValidVideoID checks if a string is a valid video ID format.
func IsValidVideoID(id string) bool {
	return validVideoID.MatchString(id)
}
