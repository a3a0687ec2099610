package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://www.bbc.co.uk", cfg.BaseURL)
	assert.Equal(t, 4, cfg.Fetch.Workers)
	assert.Equal(t, 20*time.Second, cfg.Fetch.RequestTimeout)
	assert.Equal(t, 2, cfg.Fetch.Retries)
	assert.False(t, cfg.Engine.BrowserFallback)
	assert.Equal(t, []time.Duration{0, 8 * time.Second}, cfg.Engine.EscalationDelays)
	assert.Equal(t, 0, cfg.Pipeline.TopN)
	assert.Equal(t, "null", cfg.Pipeline.UncontestedMargin)
	assert.False(t, cfg.Pipeline.Strict)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ELECTION_WORKERS", "16")
	t.Setenv("ELECTION_RATE_RPS", "0.5")
	t.Setenv("ELECTION_REQUEST_TIMEOUT", "3s")
	t.Setenv("ELECTION_BROWSER_FALLBACK", "true")
	t.Setenv("ELECTION_ESCALATION_DELAYS", "0s, 2s,bogus, 5s")
	t.Setenv("ELECTION_TOP_N", "3")
	t.Setenv("ELECTION_STRICT", "1")
	t.Setenv("ELECTION_BASE_URL", "http://127.0.0.1:9999")

	cfg := Load()

	assert.Equal(t, 16, cfg.Fetch.Workers)
	assert.Equal(t, 0.5, cfg.Fetch.RequestsPerSecond)
	assert.Equal(t, 3*time.Second, cfg.Fetch.RequestTimeout)
	assert.True(t, cfg.Engine.BrowserFallback)
	assert.Equal(t, []time.Duration{0, 2 * time.Second, 5 * time.Second}, cfg.Engine.EscalationDelays)
	assert.Equal(t, 3, cfg.Pipeline.TopN)
	assert.True(t, cfg.Pipeline.Strict)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL)
}

func TestLoad_IgnoresUnparsable(t *testing.T) {
	t.Setenv("ELECTION_WORKERS", "many")
	t.Setenv("ELECTION_RETRY_BACKOFF", "soon")

	cfg := Load()
	assert.Equal(t, 4, cfg.Fetch.Workers)
	assert.Equal(t, time.Second, cfg.Fetch.RetryBackoff)
}
