package runner

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/hustings/config"
	"github.com/use-agent/hustings/extract"
	"github.com/use-agent/hustings/models"
	"github.com/use-agent/hustings/pipeline"
	"github.com/use-agent/hustings/scraper"
	"github.com/use-agent/hustings/sink"
)

// Fetcher retrieves pages for a run. *scraper.Scraper satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (scraper.Page, error)
	FetchAll(ctx context.Context, urls []string) []scraper.Result
}

// Run scrapes every constituency of one election edition and writes the
// reshaped table to outPath. Constituencies that cannot be fetched, parsed
// or reshaped are left out of the table and listed in the summary and in
// the report next to outPath; with cfg.Pipeline.Strict the first such
// failure aborts the run instead.
func Run(ctx context.Context, cfg *config.Config, variant models.SchemaVariant, outPath string) (sink.Summary, error) {
	adapter, err := extract.For(variant, cfg.BaseURL)
	if err != nil {
		return sink.Summary{}, err
	}
	sc, err := scraper.NewScraper(cfg)
	if err != nil {
		return sink.Summary{}, err
	}
	defer func() {
		if err := sc.Close(); err != nil {
			slog.Warn("failed to close scraper", "error", err)
		}
	}()
	return run(ctx, cfg.Pipeline, adapter, sc, outPath)
}

func run(ctx context.Context, cfg config.PipelineConfig, adapter extract.Adapter, f Fetcher, outPath string) (sink.Summary, error) {
	start := time.Now()
	summary := sink.Summary{Variant: adapter.Variant(), Output: outPath}

	policy, err := pipeline.ParseMarginPolicy(cfg.UncontestedMargin)
	if err != nil {
		return summary, err
	}

	links, err := discover(ctx, adapter, f)
	if err != nil {
		return summary, err
	}
	summary.Discovered = len(links)
	slog.Info("constituencies discovered", "count", len(links), "index", adapter.IndexURL())

	urls := make([]string, len(links))
	for i, l := range links {
		urls[i] = l.URL
	}
	results := f.FetchAll(ctx, urls)
	if err := ctx.Err(); err != nil {
		return summary, models.NewError(models.ErrCodeNetwork, "run cancelled", err)
	}

	var (
		records  = make([]models.RawConstituencyRecord, 0, len(links))
		failures []models.Failure
	)
	for i, res := range results {
		link := links[i]
		rec, err := extractRecord(adapter, link, res)
		if err != nil {
			if cfg.Strict {
				return summary, err
			}
			slog.Warn("dropping constituency", "ons_id", link.ONSID, "url", link.URL, "error", err)
			failures = append(failures, models.NewFailure(link, err))
			continue
		}
		records = append(records, rec)
	}

	table, buildFailures, err := pipeline.Build(records, pipeline.BuildOptions{
		TopN:   cfg.TopN,
		Derive: pipeline.DeriveOptions{Uncontested: policy},
		Strict: cfg.Strict,
	})
	failures = append(failures, buildFailures...)
	sortByDiscovery(failures, links)
	summary.Failures = failures

	if len(failures) > 0 {
		summary.Report = sink.ReportPath(outPath)
	}
	if werr := sink.WriteReport(sink.ReportPath(outPath), failures); werr != nil {
		return summary, werr
	}
	if err != nil {
		return summary, err
	}

	if err := sink.WriteCSV(outPath, table); err != nil {
		return summary, err
	}
	summary.Written = table.Len()
	summary.Elapsed = time.Since(start)

	slog.Info("results written",
		"path", outPath,
		"rows", summary.Written,
		"failed", summary.Failed(),
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

// discover fetches the index page and returns its constituency links.
func discover(ctx context.Context, adapter extract.Adapter, f Fetcher) ([]models.ConstituencyLink, error) {
	indexURL := adapter.IndexURL()
	page, err := f.Fetch(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(page.HTML)
	if err != nil {
		return nil, &models.PipelineError{Code: models.ErrCodeParse, URL: indexURL, Message: "index page is not HTML", Err: err}
	}
	links, err := adapter.Links(doc)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, &models.PipelineError{Code: models.ErrCodeEmptyInput, URL: indexURL, Message: "no constituency links found"}
	}
	return links, nil
}

func extractRecord(adapter extract.Adapter, link models.ConstituencyLink, res scraper.Result) (models.RawConstituencyRecord, error) {
	if res.Err != nil {
		return models.RawConstituencyRecord{}, res.Err
	}
	doc, err := parseHTML(res.Page.HTML)
	if err != nil {
		return models.RawConstituencyRecord{}, models.ParseFailure(link, "page is not HTML: %v", err)
	}
	return adapter.Parse(link, doc)
}

func parseHTML(s string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// sortByDiscovery orders failures the way their constituencies were listed
// on the index page.
func sortByDiscovery(failures []models.Failure, links []models.ConstituencyLink) {
	pos := make(map[string]int, len(links))
	for i, l := range links {
		pos[l.ONSID] = i
	}
	slices.SortStableFunc(failures, func(a, b models.Failure) int {
		return pos[a.ONSID] - pos[b.ONSID]
	})
}
