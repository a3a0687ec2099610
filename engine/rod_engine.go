package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/hustings/config"
)

// RodEngine renders pages in a headless Chromium. It is the fallback tier
// for pages the HTTP engine cannot get, e.g. behind a JS challenge.
type RodEngine struct {
	browser  *rod.Browser
	pagePool rod.Pool[rod.Page]
	health   *tabTracker
}

// NewRodEngine launches a browser and creates the page pool.
func NewRodEngine(cfg config.BrowserConfig, proxy string) (*RodEngine, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)
	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if proxy != "" {
		l = l.Proxy(proxy)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("rod: launch browser: %w", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("rod: connect to browser: %w", err)
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	return &RodEngine{
		browser:  browser,
		pagePool: rod.NewPagePool(maxPages),
		health:   newTabTracker(),
	}, nil
}

func (e *RodEngine) Name() string { return "rod" }

// Fetch navigates a pooled tab to the URL and returns the rendered HTML.
func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	page, err := acquirePage(e.pagePool, func() (*rod.Page, error) {
		return e.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, fmt.Errorf("rod: acquire page: %w", err)
	}

	result, err := e.render(ctx, page, req)
	e.release(page, err == nil)
	return result, err
}

// acquirePage takes a tab from pool, opening one with create when the slot
// is empty. A failed create gives the slot back so the pool keeps its size.
func acquirePage(pool rod.Pool[rod.Page], create func() (*rod.Page, error)) (*rod.Page, error) {
	page, err := pool.Get(create)
	if err != nil {
		pool.Put(nil)
		return nil, err
	}
	return page, nil
}

// release returns page to the pool, or closes it and frees its slot when
// the tab has become unhealthy.
func (e *RodEngine) release(page *rod.Page, ok bool) {
	if e.health.record(page, ok) {
		slog.Debug("rod: retiring tab")
		_ = page.Close()
		e.pagePool.Put(nil)
		return
	}
	// about:blank through the original page so cleanup works after ctx expires.
	if navErr := page.Navigate("about:blank"); navErr != nil {
		slog.Warn("rod: failed to reset page", "error", navErr)
	}
	e.pagePool.Put(page)
}

func (e *RodEngine) render(ctx context.Context, page *rod.Page, req *FetchRequest) (*FetchResult, error) {
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("rod: stealth injection failed", "error", err)
	}
	if len(req.Headers) > 0 {
		headers := make(proto.NetworkHeaders, len(req.Headers))
		for k, v := range req.Headers {
			headers[k] = gson.New(v)
		}
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(page)
	}

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("rod: navigate %s: %w", req.URL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("rod: wait load %s: %w", req.URL, err)
	}

	body, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("rod: read html: %w", err)
	}

	result := &FetchResult{
		HTML:       body,
		StatusCode: 200,
		FinalURL:   req.URL,
		EngineName: e.Name(),
	}
	if info, err := p.Info(); err == nil {
		result.Title = info.Title
		result.FinalURL = info.URL
	}
	return result, nil
}

// Close drains the page pool and shuts the browser down.
func (e *RodEngine) Close() error {
	e.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	return e.browser.Close()
}
