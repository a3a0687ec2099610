package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/use-agent/hustings/models"
	"github.com/use-agent/hustings/scraper"
)

type cand struct {
	party, name string
	votes       int
	share       string
	change      string
}

func index2024(ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<li><a class="ssrcss-1-EntryLink" href="/news/election/2024/uk/constituencies/%s">Seat %s</a></li>`, id, id)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func page2024(registered, turnout, change string, cands ...cand) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, c := range cands {
		fmt.Fprintf(&b, `<div class="ssrcss-1-ScorecardWrapper">
<span class="ssrcss-2-Supertitle">%s•</span><span class="ssrcss-3-Title">%s</span>
<span class="ssrcss-4-ResultValue">%d</span><span class="ssrcss-4-ResultValue">%s</span><span class="ssrcss-4-ResultValue">%s</span>
</div>`, c.party, c.name, c.votes, c.share, c.change)
	}
	fmt.Fprintf(&b, `<div class="ssrcss-5-StyledTurnoutContainer">
<span class="ssrcss-6-StyledResult">%s</span><span class="ssrcss-6-StyledResult">%s</span><span class="ssrcss-6-StyledResult">%s</span>
</div></body></html>`, registered, turnout, change)
	return b.String()
}

func index2019(ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<li><a href="/news/politics/constituencies/%s">Seat %s</a></li>`, id, id)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func page2019(majority, registered, turnout, change string, cands ...cand) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="ge2019-constituency-result">`)
	for _, c := range cands {
		fmt.Fprintf(&b, `<div>
<span class="ge2019-constituency-result__party-name">%s</span>
<span class="ge2019-constituency-result__candidate-name">%s</span>
<span class="ge2019-constituency-result__details-value">%d</span>
<span class="ge2019-constituency-result__details-value">%s</span>
<span class="ge2019-constituency-result__details-value">%s</span>
</div>`, c.party, c.name, c.votes, c.share, c.change)
	}
	fmt.Fprintf(&b, `</div><div class="ge2019-constituency-result-turnout">
<span class="ge2019-constituency-result-turnout__value">%s</span>
<span class="ge2019-constituency-result-turnout__value">%s</span>
<span class="ge2019-constituency-result-turnout__value">%s</span>
<span class="ge2019-constituency-result-turnout__value">%s</span>
</div></body></html>`, majority, registered, turnout, change)
	return b.String()
}

// fakeFetcher serves pages from a map; unknown URLs fail like a 404.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (scraper.Page, error) {
	html, ok := f.pages[url]
	if !ok {
		return scraper.Page{}, &models.PipelineError{Code: models.ErrCodeNetwork, URL: url, Message: "status 404"}
	}
	return scraper.Page{URL: url, FinalURL: url, HTML: html, EngineName: "fake"}, nil
}

func (f *fakeFetcher) FetchAll(ctx context.Context, urls []string) []scraper.Result {
	out := make([]scraper.Result, len(urls))
	for i, u := range urls {
		page, err := f.Fetch(ctx, u)
		out[i] = scraper.Result{URL: u, Page: page, Err: err}
	}
	return out
}
