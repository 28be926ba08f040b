package config

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

// AppSettings are the options the single-page client reads once at startup.
type AppSettings struct {
	Theme    string `env:"THEME" envDefault:"classic"`
	AppTitle string `env:"APP_TITLE" envDefault:"Karaoke"`
}

// CatalogConfig locates the catalog file and the media directories the
// records point into.
type CatalogConfig struct {
	CatalogPath   string `env:"CATALOG_PATH" envDefault:"videos.json"`
	VideosDir     string `env:"VIDEOS_DIR" envDefault:"videos"`
	CoversDir     string `env:"COVERS_DIR" envDefault:"covers"`
	FallbackCover string `env:"FALLBACK_COVER" envDefault:"static/cover-fallback.jpg"`
}

// SearchConfig drives the paging behaviour of the search engine.
type SearchConfig struct {
	PageSize   int `env:"PAGE_SIZE" envDefault:"40"`
	MaxResults int `env:"MAX_RESULTS" envDefault:"160"`
}

// HTTPConfig holds timeouts for the server and outbound clients.
type HTTPConfig struct {
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SearchTimeout   time.Duration `env:"HTTP_SEARCH_TIMEOUT" envDefault:"30s"`
}

var (
	App     = loadAppSettings()
	Catalog = loadCatalogConfig()
	Search  = loadSearchConfig()
	HTTP    = loadHTTPConfig()
)

func loadAppSettings() AppSettings {
	return AppSettings{
		Theme:    envString("THEME", "classic"),
		AppTitle: envString("APP_TITLE", "Karaoke"),
	}
}

func loadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		CatalogPath:   envString("CATALOG_PATH", "videos.json"),
		VideosDir:     envString("VIDEOS_DIR", "videos"),
		CoversDir:     envString("COVERS_DIR", "covers"),
		FallbackCover: envString("FALLBACK_COVER", "static/cover-fallback.jpg"),
	}
}

func loadSearchConfig() SearchConfig {
	return SearchConfig{
		PageSize:   envInt("PAGE_SIZE", 40),
		MaxResults: envInt("MAX_RESULTS", 160),
	}
}

func loadHTTPConfig() HTTPConfig {
	cfg := HTTPConfig{
		ShutdownTimeout: 10 * time.Second,
		SearchTimeout:   30 * time.Second,
	}
	if v := os.Getenv("HTTP_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("HTTP_SEARCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SearchTimeout = d
		}
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// SearchClient returns the HTTP client used for outbound video lookups.
func SearchClient() *http.Client {
	return &http.Client{
		Timeout: HTTP.SearchTimeout,
	}
}
