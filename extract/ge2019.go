package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/hustings/models"
)

var (
	sel2019Anchor       = cascadia.MustCompile(`a[href]`)
	sel2019Result       = cascadia.MustCompile(`div.ge2019-constituency-result`)
	sel2019Party        = cascadia.MustCompile(`span.ge2019-constituency-result__party-name`)
	sel2019Candidate    = cascadia.MustCompile(`span.ge2019-constituency-result__candidate-name`)
	sel2019Details      = cascadia.MustCompile(`span.ge2019-constituency-result__details-value`)
	sel2019TurnoutValue = cascadia.MustCompile(`span.ge2019-constituency-result-turnout__value`)
)

const constituencyPath2019 = "/news/politics/constituencies/"

// GE2019 reads the 2019 general election pages.
type GE2019 struct {
	base *url.URL
}

func (*GE2019) Variant() models.SchemaVariant { return models.Y2019 }

func (a *GE2019) IndexURL() string {
	return a.base.ResolveReference(&url.URL{Path: "/news/politics/constituencies"}).String()
}

// Links keeps only anchors pointing at a constituency page; the index also
// carries site navigation and footer links.
func (a *GE2019) Links(doc *goquery.Document) ([]models.ConstituencyLink, error) {
	return collectLinks(a.base, find(doc.Selection, sel2019Anchor), constituencyPath2019), nil
}

// Parse reads the result block, where details values come in
// (votes, share, change) triples per candidate, and the turnout panel
// (majority, registered voters, turnout %, change).
//
// Turnout is left nil: this edition reports turnout as the number of votes
// cast, which is derived from the candidate rows downstream.
func (a *GE2019) Parse(link models.ConstituencyLink, doc *goquery.Document) (models.RawConstituencyRecord, error) {
	rec := models.RawConstituencyRecord{
		ONSID:   link.ONSID,
		Name:    link.Name,
		URL:     link.URL,
		Variant: models.Y2019,
	}

	block := find(doc.Selection, sel2019Result).First()
	if block.Length() == 0 {
		return rec, models.ParseFailure(link, "result block not found")
	}

	turnout := find(doc.Selection, sel2019TurnoutValue)
	if turnout.Length() < 4 {
		return rec, models.ParseFailure(link, "turnout panel has %d values, want 4", turnout.Length())
	}
	majority, err := parseCount(nth(turnout, 0))
	if err != nil {
		return rec, models.ParseFailure(link, "majority %q: %v", nth(turnout, 0), err)
	}
	registered, err := parseCount(nth(turnout, 1))
	if err != nil {
		return rec, models.ParseFailure(link, "registered voters %q: %v", nth(turnout, 1), err)
	}
	rec.WinMargin = &majority
	rec.RegisteredVoters = registered
	rec.TurnoutChange = signedChange(nth(turnout, 3), changeDirection(turnout.Eq(3)))

	parties := find(block, sel2019Party)
	names := find(block, sel2019Candidate)
	details := find(block, sel2019Details)
	n := parties.Length()
	if n == 0 {
		return rec, models.ParseFailure(link, "no candidates in result block")
	}
	if names.Length() != n || details.Length() != 3*n {
		return rec, models.ParseFailure(link,
			"result block mismatch: %d parties, %d candidates, %d values",
			n, names.Length(), details.Length())
	}

	for i := 0; i < n; i++ {
		votes, err := parseCount(nth(details, 3*i))
		if err != nil {
			return rec, models.ParseFailure(link, "candidate %d votes %q: %v", i+1, nth(details, 3*i), err)
		}
		share, err := parseShare(nth(details, 3*i+1))
		if err != nil {
			return rec, models.ParseFailure(link, "candidate %d vote share %q: %v", i+1, nth(details, 3*i+1), err)
		}
		change := details.Eq(3*i + 2)
		rec.Breakdown = append(rec.Breakdown, models.CandidateResult{
			Party:       nth(parties, i),
			Candidate:   nth(names, i),
			Votes:       votes,
			VoteShare:   share,
			ShareChange: signedChange(textOf(change), changeDirection(change)),
		})
	}
	return rec, nil
}

// changeDirection reads the increase/decrease marker on the value or its
// container.
func changeDirection(sel *goquery.Selection) direction {
	for _, s := range []*goquery.Selection{sel, sel.Parent()} {
		class := strings.ToLower(s.AttrOr("class", ""))
		switch {
		case strings.Contains(class, "negative"), strings.Contains(class, "decrease"):
			return dirDown
		case strings.Contains(class, "positive"), strings.Contains(class, "increase"):
			return dirUp
		}
	}
	return dirUnknown
}
