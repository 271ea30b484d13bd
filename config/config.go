package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Gallery   GalleryConfig
	Scraper   ScraperConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Vision    VisionConfig
	LLM       LLMConfig
	Website   WebsiteConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// GalleryConfig controls the listing gallery walk. The settle delays stand
// in for a page-readiness signal; the target site gives us none.
type GalleryConfig struct {
	// LoadSettle is the wait after initial navigation.
	LoadSettle time.Duration // default: 5s

	// StepSettle is the wait after opening the preview or full gallery.
	StepSettle time.Duration // default: 3s

	// AdvanceSettle is the wait after each next-image click.
	AdvanceSettle time.Duration // default: 1s

	// FallbackTotal caps the harvest loop when the gallery counter cannot
	// be read.
	FallbackTotal int // default: 50

	// AdvanceX, AdvanceY is the viewport point clicked to advance the
	// gallery to the next image.
	AdvanceX int // default: 640
	AdvanceY int // default: 360
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout time.Duration // default: 180s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 600s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// CacheConfig controls the generated-post cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 500
}

// VisionConfig controls the image-tagging service client.
type VisionConfig struct {
	// APIKey authenticates against the Vision REST endpoint.
	APIKey string

	// Endpoint is the annotate URL.
	// default: "https://vision.googleapis.com/v1/images:annotate"
	Endpoint string

	// MaxConcurrent bounds the tagging fan-out per generate request.
	MaxConcurrent int // default: 4
}

// LLMConfig controls the caption-generation client.
type LLMConfig struct {
	// APIKey authenticates against the chat-completions endpoint.
	APIKey string

	// Model is the chat model name. default: "gpt-4o-mini"
	Model string

	// BaseURL is the OpenAI-compatible API root.
	// default: "https://api.openai.com/v1"
	BaseURL string
}

// WebsiteConfig controls optional hotel-website ingestion.
type WebsiteConfig struct {
	// ContentSelector optionally narrows the website page to a CSS
	// selector before readability runs. Empty means whole page.
	ContentSelector string

	// MaxDigestChars truncates the website markdown digest fed to the
	// caption prompt.
	MaxDigestChars int // default: 4000
}

// WebhookConfig controls asynchronous result delivery.
type WebhookConfig struct {
	// Secret signs webhook payloads (HMAC-SHA256). Empty disables signing.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("STAYPRESS_HOST", "0.0.0.0"),
			Port: envIntOr("STAYPRESS_PORT", 8080),
			Mode: envOr("STAYPRESS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("STAYPRESS_HEADLESS", true),
			MaxPages:     envIntOr("STAYPRESS_MAX_PAGES", 4),
			DefaultProxy: os.Getenv("STAYPRESS_PROXY"),
			NoSandbox:    envBoolOr("STAYPRESS_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("STAYPRESS_BROWSER_BIN"),
		},
		Gallery: GalleryConfig{
			LoadSettle:    envDurationOr("STAYPRESS_LOAD_SETTLE", 5*time.Second),
			StepSettle:    envDurationOr("STAYPRESS_STEP_SETTLE", 3*time.Second),
			AdvanceSettle: envDurationOr("STAYPRESS_ADVANCE_SETTLE", time.Second),
			FallbackTotal: envIntOr("STAYPRESS_FALLBACK_TOTAL", 50),
			AdvanceX:      envIntOr("STAYPRESS_ADVANCE_X", 640),
			AdvanceY:      envIntOr("STAYPRESS_ADVANCE_Y", 360),
		},
		Scraper: ScraperConfig{
			DefaultTimeout: envDurationOr("STAYPRESS_DEFAULT_TIMEOUT", 180*time.Second),
			MaxTimeout:     envDurationOr("STAYPRESS_MAX_TIMEOUT", 600*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("STAYPRESS_AUTH_ENABLED", true),
			APIKeys: envSliceOr("STAYPRESS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("STAYPRESS_RATE_RPS", 1.0),
			Burst:             envIntOr("STAYPRESS_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("STAYPRESS_CACHE_MAX_ENTRIES", 500),
		},
		Vision: VisionConfig{
			APIKey:        os.Getenv("STAYPRESS_VISION_API_KEY"),
			Endpoint:      envOr("STAYPRESS_VISION_ENDPOINT", "https://vision.googleapis.com/v1/images:annotate"),
			MaxConcurrent: envIntOr("STAYPRESS_VISION_CONCURRENCY", 4),
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("STAYPRESS_LLM_API_KEY"),
			Model:   envOr("STAYPRESS_LLM_MODEL", "gpt-4o-mini"),
			BaseURL: envOr("STAYPRESS_LLM_BASE_URL", "https://api.openai.com/v1"),
		},
		Website: WebsiteConfig{
			ContentSelector: os.Getenv("STAYPRESS_WEBSITE_SELECTOR"),
			MaxDigestChars:  envIntOr("STAYPRESS_WEBSITE_MAX_DIGEST", 4000),
		},
		Webhook: WebhookConfig{
			Secret: os.Getenv("STAYPRESS_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("STAYPRESS_LOG_LEVEL", "info"),
			Format: envOr("STAYPRESS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
