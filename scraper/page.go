package scraper

import "github.com/use-agent/hustings/cache"

// Page is a fetched HTML page.
type Page struct {
	URL        string
	FinalURL   string
	HTML       string
	Title      string
	EngineName string
}

// Result is the outcome of fetching one URL in FetchAll.
type Result struct {
	URL  string
	Page Page
	Err  error
}

func (p Page) cached() cache.Page {
	return cache.Page{URL: p.URL, FinalURL: p.FinalURL, HTML: p.HTML, Title: p.Title, EngineName: p.EngineName}
}

func fromCache(p cache.Page) Page {
	return Page{URL: p.URL, FinalURL: p.FinalURL, HTML: p.HTML, Title: p.Title, EngineName: p.EngineName}
}
