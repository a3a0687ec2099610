package scraper

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// FetchAll fetches every URL with at most cfg.Workers requests in flight.
// Results are indexed by input position, so results[i] belongs to urls[i]
// whatever order the fetches complete in. A failed URL is recorded in its
// Result and never cancels the others; cancelling ctx stops the rest.
func (s *Scraper) FetchAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for i, u := range urls {
		g.Go(func() error {
			page, err := s.Fetch(ctx, u)
			results[i] = Result{URL: u, Page: page, Err: err}
			if err != nil {
				slog.Warn("page fetch failed", "url", u, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
