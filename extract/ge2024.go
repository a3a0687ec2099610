package extract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/hustings/models"
)

// The 2024 pages use generated class names ("ssrcss-1g76nlj-ScorecardWrapper");
// the selectors match on the stable component suffix only.
var (
	sel2024EntryLink  = cascadia.MustCompile(`a[class*="EntryLink"]`)
	sel2024Turnout    = cascadia.MustCompile(`div[class*="StyledTurnoutContainer"]`)
	sel2024Result     = cascadia.MustCompile(`span[class*="StyledResult"]`)
	sel2024Scorecard  = cascadia.MustCompile(`div[class*="ScorecardWrapper"]`)
	sel2024Party      = cascadia.MustCompile(`span[class*="Supertitle"]`)
	sel2024Candidate  = cascadia.MustCompile(`span[class*="-Title"]`)
	sel2024ValueCells = cascadia.MustCompile(`span[class*="ResultValue"]`)
)

// GE2024 reads the 2024 general election pages.
type GE2024 struct {
	base *url.URL
}

func (*GE2024) Variant() models.SchemaVariant { return models.Y2024 }

func (a *GE2024) IndexURL() string {
	return a.base.ResolveReference(&url.URL{Path: "/news/election/2024/uk/constituencies"}).String()
}

func (a *GE2024) Links(doc *goquery.Document) ([]models.ConstituencyLink, error) {
	return collectLinks(a.base, find(doc.Selection, sel2024EntryLink), ""), nil
}

// Parse reads the turnout panel (registered voters, turnout %, change) and
// one scorecard per candidate (party, name, then votes, share, share change).
func (a *GE2024) Parse(link models.ConstituencyLink, doc *goquery.Document) (models.RawConstituencyRecord, error) {
	rec := models.RawConstituencyRecord{
		ONSID:   link.ONSID,
		Name:    link.Name,
		URL:     link.URL,
		Variant: models.Y2024,
	}

	panel := find(doc.Selection, sel2024Turnout).First()
	if panel.Length() == 0 {
		return rec, models.ParseFailure(link, "turnout panel not found")
	}
	results := find(panel, sel2024Result)
	if results.Length() < 3 {
		return rec, models.ParseFailure(link, "turnout panel has %d values, want 3", results.Length())
	}

	registered, err := parseCount(nth(results, 0))
	if err != nil {
		return rec, models.ParseFailure(link, "registered voters %q: %v", nth(results, 0), err)
	}
	turnout, err := parsePercent(nth(results, 1))
	if err != nil {
		return rec, models.ParseFailure(link, "turnout %q: %v", nth(results, 1), err)
	}
	rec.RegisteredVoters = registered
	rec.Turnout = &turnout
	rec.TurnoutChange = nth(results, 2)

	cards := find(doc.Selection, sel2024Scorecard)
	if cards.Length() == 0 {
		return rec, models.ParseFailure(link, "no candidate scorecards")
	}
	var perr error
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		var c models.CandidateResult
		c, perr = parseScorecard(link, i, card)
		if perr != nil {
			return false
		}
		rec.Breakdown = append(rec.Breakdown, c)
		return true
	})
	if perr != nil {
		return rec, perr
	}
	return rec, nil
}

func parseScorecard(link models.ConstituencyLink, i int, card *goquery.Selection) (models.CandidateResult, error) {
	var c models.CandidateResult

	party := find(card, sel2024Party).First()
	name := find(card, sel2024Candidate).First()
	values := find(card, sel2024ValueCells)
	if party.Length() == 0 || name.Length() == 0 || values.Length() < 3 {
		return c, models.ParseFailure(link, "scorecard %d is incomplete", i+1)
	}

	votes, err := parseCount(nth(values, 0))
	if err != nil {
		return c, models.ParseFailure(link, "scorecard %d votes %q: %v", i+1, nth(values, 0), err)
	}
	share, err := parseShare(nth(values, 1))
	if err != nil {
		return c, models.ParseFailure(link, "scorecard %d vote share %q: %v", i+1, nth(values, 1), err)
	}

	c.Party = dropLastRune(textOf(party))
	c.Candidate = textOf(name)
	c.Votes = votes
	c.VoteShare = share
	c.ShareChange = nth(values, 2)
	return c, nil
}
