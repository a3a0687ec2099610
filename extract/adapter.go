package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/hustings/models"
)

// DefaultBaseURL is the origin constituency links are resolved against.
const DefaultBaseURL = "https://www.bbc.co.uk"

// Adapter turns one election edition's pages into raw records.
type Adapter interface {
	// Variant returns the edition the adapter understands.
	Variant() models.SchemaVariant

	// IndexURL is the page listing every constituency.
	IndexURL() string

	// Links extracts constituency links from the index page, deduplicated
	// by ONS ID, in page order.
	Links(doc *goquery.Document) ([]models.ConstituencyLink, error)

	// Parse extracts one constituency's result page.
	Parse(link models.ConstituencyLink, doc *goquery.Document) (models.RawConstituencyRecord, error)
}

// For returns the adapter for variant, resolving links against baseURL
// (DefaultBaseURL when empty).
func For(variant models.SchemaVariant, baseURL string) (Adapter, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("extract: base url: %w", err)
	}
	switch variant {
	case models.Y2019:
		return &GE2019{base: base}, nil
	case models.Y2024:
		return &GE2024{base: base}, nil
	}
	return nil, fmt.Errorf("extract: no adapter for %v", variant)
}

// collectLinks resolves every anchor in sel whose href ends in an ONS ID.
// A non-empty pathPrefix restricts the anchors to that path.
func collectLinks(base *url.URL, sel *goquery.Selection, pathPrefix string) []models.ConstituencyLink {
	var links []models.ConstituencyLink
	seen := make(map[string]struct{})
	sel.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		path := strings.TrimSuffix(ref.Path, "/")
		if pathPrefix != "" && !strings.Contains(path, pathPrefix) {
			return
		}
		if len(path) < 9 {
			return
		}
		id := path[len(path)-9:]
		if !models.ValidONSID(id) {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}

		abs := base.ResolveReference(&url.URL{Path: path})
		links = append(links, models.ConstituencyLink{
			ONSID: id,
			Name:  textOf(a),
			URL:   abs.String(),
		})
	})
	return links
}

// nth returns the cleaned text of the i-th node in sel.
func nth(sel *goquery.Selection, i int) string {
	return textOf(sel.Eq(i))
}

// find is FindMatcher for a compiled selector.
func find(sel *goquery.Selection, m cascadia.Selector) *goquery.Selection {
	return sel.FindMatcher(m)
}
