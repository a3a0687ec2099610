package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/use-agent/hustings/cache"
	"github.com/use-agent/hustings/config"
	"github.com/use-agent/hustings/engine"
	"github.com/use-agent/hustings/models"
)

// Dispatcher is the part of engine.Dispatcher the scraper depends on.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// Scraper fetches pages politely: every request passes through a shared
// token-bucket limiter, each attempt has its own timeout, and failed
// attempts are retried with linear backoff. It is safe for concurrent use.
type Scraper struct {
	dispatcher Dispatcher
	limiter    *rate.Limiter
	cache      *cache.Cache
	cfg        config.FetchConfig
	closers    []func() error
}

// New creates a Scraper around an existing dispatcher. c may be nil.
func New(d Dispatcher, cfg config.FetchConfig, c *cache.Cache) *Scraper {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Scraper{
		dispatcher: d,
		limiter:    rate.NewLimiter(limit, burst),
		cache:      c,
		cfg:        cfg,
	}
}

// NewScraper builds the engine stack described by cfg: the HTTP engine,
// optionally followed by a headless browser, behind a dispatcher with
// per-host engine memory.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	engines := []engine.Engine{engine.NewHTTPEngine(cfg.Fetch.Proxy)}
	var closers []func() error

	if cfg.Engine.BrowserFallback {
		rodEngine, err := engine.NewRodEngine(cfg.Browser, cfg.Fetch.Proxy)
		if err != nil {
			return nil, models.NewError(models.ErrCodeNetwork, "failed to start browser engine", err)
		}
		engines = append(engines, rodEngine)
		closers = append(closers, rodEngine.Close)
	}

	d := engine.NewDispatcher(engines, cfg.Engine.EscalationDelays, engine.NewDomainMemory(cfg.Engine.MemoryTTL))
	slog.Info("fetch engines ready", "engines", d.Engines(), "workers", cfg.Fetch.Workers)

	s := New(d, cfg.Fetch, cache.New(cfg.Cache.MaxEntries, 0))
	s.closers = closers
	return s, nil
}

// Fetch returns the page at url. Cached pages are returned without touching
// the network. Errors are *models.PipelineError with code NETWORK_ERROR.
func (s *Scraper) Fetch(ctx context.Context, url string) (Page, error) {
	if p, ok := s.cache.Get(url); ok {
		slog.Debug("page cache hit", "url", url)
		return fromCache(p), nil
	}

	var lastErr error
	attempts := s.cfg.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := s.cfg.RetryBackoff * time.Duration(attempt-1)
			slog.Warn("retrying fetch", "url", url, "attempt", attempt, "wait", wait, "error", lastErr)
			if err := sleep(ctx, wait); err != nil {
				return Page{}, networkError(url, err)
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return Page{}, networkError(url, err)
		}

		result, err := s.attempt(ctx, url)
		if err == nil {
			page := Page{
				URL:        url,
				FinalURL:   result.FinalURL,
				HTML:       result.HTML,
				Title:      result.Title,
				EngineName: result.EngineName,
			}
			s.cache.Set(page.cached())
			slog.Debug("page fetched", "url", url, "engine", result.EngineName, "attempt", attempt)
			return page, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}
	return Page{}, networkError(url, lastErr)
}

func (s *Scraper) attempt(ctx context.Context, url string) (*engine.FetchResult, error) {
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}
	return s.dispatcher.Dispatch(ctx, &engine.FetchRequest{
		URL:     url,
		Timeout: s.cfg.RequestTimeout,
	})
}

// Close releases engine resources such as the browser process.
func (s *Scraper) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	if hits, misses := s.cache.Stats(); hits+misses > 0 {
		slog.Debug("page cache stats", "hits", hits, "misses", misses)
	}
	return errors.Join(errs...)
}

// retryable reports whether another attempt at a failed fetch could succeed.
// Responses that arrived with a client error or a non-HTML body will not
// change on retry.
func retryable(err error) bool {
	var se *engine.StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

func networkError(url string, err error) *models.PipelineError {
	return &models.PipelineError{
		Code:    models.ErrCodeNetwork,
		URL:     url,
		Message: "fetch failed",
		Err:     err,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
