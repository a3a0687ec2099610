package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Fetch    FetchConfig
	Browser  BrowserConfig
	Engine   EngineConfig
	Pipeline PipelineConfig
	Cache    CacheConfig
	Log      LogConfig

	// BaseURL is the site origin constituency pages live under.
	BaseURL string // default: "https://www.bbc.co.uk"
}

// FetchConfig controls how constituency pages are requested.
type FetchConfig struct {
	// Workers is the number of pages fetched concurrently.
	Workers int // default: 4

	// RequestsPerSecond is the sustained request rate across all workers.
	RequestsPerSecond float64 // default: 4

	// Burst is the token-bucket burst size.
	Burst int // default: 2

	// RequestTimeout bounds a single attempt, all engines included.
	RequestTimeout time.Duration // default: 20s

	// Retries is the number of extra attempts after a failed fetch.
	Retries int // default: 2

	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration // default: 1s

	// Proxy is an optional http(s) proxy URL.
	Proxy string
}

// EngineConfig controls the engine dispatcher.
type EngineConfig struct {
	// BrowserFallback adds a headless-browser engine behind the HTTP engine.
	BrowserFallback bool // default: false

	// EscalationDelays is the staged start delay for each engine tier.
	EscalationDelays []time.Duration // default: [0s, 8s]

	// MemoryTTL is how long the winning engine is remembered per host.
	MemoryTTL time.Duration // default: 1h
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity.
	MaxPages int // default: 4

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// PipelineConfig controls reshaping.
type PipelineConfig struct {
	// TopN keeps only the leading candidates per constituency; 0 keeps all.
	TopN int // default: 0

	// UncontestedMargin is "error", "null" or "total".
	UncontestedMargin string // default: "null"

	// Strict aborts the run on the first failed constituency.
	Strict bool // default: false
}

// CacheConfig controls the in-run page cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached pages.
	MaxEntries int // default: 2048
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		BaseURL: envOr("ELECTION_BASE_URL", "https://www.bbc.co.uk"),
		Fetch: FetchConfig{
			Workers:           envIntOr("ELECTION_WORKERS", 4),
			RequestsPerSecond: envFloatOr("ELECTION_RATE_RPS", 4),
			Burst:             envIntOr("ELECTION_RATE_BURST", 2),
			RequestTimeout:    envDurationOr("ELECTION_REQUEST_TIMEOUT", 20*time.Second),
			Retries:           envIntOr("ELECTION_RETRIES", 2),
			RetryBackoff:      envDurationOr("ELECTION_RETRY_BACKOFF", time.Second),
			Proxy:             os.Getenv("ELECTION_PROXY"),
		},
		Engine: EngineConfig{
			BrowserFallback:  envBoolOr("ELECTION_BROWSER_FALLBACK", false),
			EscalationDelays: envDurationSliceOr("ELECTION_ESCALATION_DELAYS", []time.Duration{0, 8 * time.Second}),
			MemoryTTL:        envDurationOr("ELECTION_ENGINE_MEMORY_TTL", time.Hour),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("ELECTION_HEADLESS", true),
			MaxPages:   envIntOr("ELECTION_MAX_PAGES", 4),
			NoSandbox:  envBoolOr("ELECTION_NO_SANDBOX", false),
			BrowserBin: os.Getenv("ELECTION_BROWSER_BIN"),
		},
		Pipeline: PipelineConfig{
			TopN:              envIntOr("ELECTION_TOP_N", 0),
			UncontestedMargin: envOr("ELECTION_UNCONTESTED_MARGIN", "null"),
			Strict:            envBoolOr("ELECTION_STRICT", false),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("ELECTION_CACHE_ENTRIES", 2048),
		},
		Log: LogConfig{
			Level:  envOr("ELECTION_LOG_LEVEL", "info"),
			Format: envOr("ELECTION_LOG_FORMAT", "text"),
		},
	}
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
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
