package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/hustings/models"
)

const index2019 = `<html><body>
<header><a href="/news">Home</a><a href="/news/politics">Politics</a></header>
<ul>
  <li><a href="/news/politics/constituencies/W07000049">Aberavon</a></li>
  <li><a href="/news/politics/constituencies/W07000058">Aberconwy</a></li>
  <li><a href="/news/politics/constituencies/W07000049">Aberavon</a></li>
</ul>
<footer><a href="/news/politics/constituencies">All constituencies</a><a href="/terms/E14000000">Terms</a></footer>
</body></html>`

const page2019 = `<html><body>
<div class="ge2019-constituency-result">
  <div class="ge2019-constituency-result__row">
    <span class="ge2019-constituency-result__party-name">Labour</span>
    <span class="ge2019-constituency-result__candidate-name">Stephen Kinnock</span>
    <span class="ge2019-constituency-result__details-value">17,008</span>
    <span class="ge2019-constituency-result__details-value">53.8%</span>
    <span class="ge2019-constituency-result__details-value ge2019-constituency-result__details-value--negative">14.3%</span>
  </div>
  <div class="ge2019-constituency-result__row">
    <span class="ge2019-constituency-result__party-name">Conservative</span>
    <span class="ge2019-constituency-result__candidate-name">Charlotte Lang</span>
    <span class="ge2019-constituency-result__details-value">6,518</span>
    <span class="ge2019-constituency-result__details-value">20.6%</span>
    <span class="ge2019-constituency-result__details-value">+2.9%</span>
  </div>
</div>
<div class="ge2019-constituency-result-turnout">
  <span class="ge2019-constituency-result-turnout__value">10,490</span>
  <span class="ge2019-constituency-result-turnout__value">50,747</span>
  <span class="ge2019-constituency-result-turnout__value">62.3%</span>
  <span class="ge2019-constituency-result-turnout__value">-4.3%</span>
</div>
</body></html>`

func TestGE2019_Links(t *testing.T) {
	a := mustAdapter(t, models.Y2019)

	links, err := a.Links(mustDoc(t, index2019))
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "W07000049", links[0].ONSID)
	assert.Equal(t, "Aberavon", links[0].Name)
	assert.Equal(t, "https://www.bbc.co.uk/news/politics/constituencies/W07000049", links[0].URL)
	assert.Equal(t, "W07000058", links[1].ONSID)
}

func TestGE2019_Parse(t *testing.T) {
	a := mustAdapter(t, models.Y2019)
	link := models.ConstituencyLink{ONSID: "W07000049", Name: "Aberavon", URL: "https://example/W07000049"}

	rec, err := a.Parse(link, mustDoc(t, page2019))
	require.NoError(t, err)

	assert.Equal(t, models.Y2019, rec.Variant)
	assert.Nil(t, rec.Turnout)
	require.NotNil(t, rec.WinMargin)
	assert.Equal(t, 10490, *rec.WinMargin)
	assert.Equal(t, 50747, rec.RegisteredVoters)
	assert.Equal(t, "-4.3%", rec.TurnoutChange)

	assert.Equal(t, []models.CandidateResult{
		{Party: "Labour", Candidate: "Stephen Kinnock", Votes: 17008, VoteShare: 53.8, ShareChange: "-14.3%"},
		{Party: "Conservative", Candidate: "Charlotte Lang", Votes: 6518, VoteShare: 20.6, ShareChange: "+2.9%"},
	}, rec.Breakdown)
}

func TestGE2019_ParseMismatch(t *testing.T) {
	a := mustAdapter(t, models.Y2019)
	link := models.ConstituencyLink{ONSID: "W07000049", URL: "https://example/W07000049"}

	html := `<div class="ge2019-constituency-result">
		<span class="ge2019-constituency-result__party-name">Labour</span>
		<span class="ge2019-constituency-result__candidate-name">A</span>
		<span class="ge2019-constituency-result__details-value">1</span>
	</div>
	<span class="ge2019-constituency-result-turnout__value">1</span>
	<span class="ge2019-constituency-result-turnout__value">2</span>
	<span class="ge2019-constituency-result-turnout__value">3%</span>
	<span class="ge2019-constituency-result-turnout__value">+1%</span>`

	_, err := a.Parse(link, mustDoc(t, html))
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.ErrCodeParse))

	_, err = a.Parse(link, mustDoc(t, `<p>gone</p>`))
	assert.True(t, models.IsCode(err, models.ErrCodeParse))
}

func turnoutPanel2019(changeCell string) string {
	return `<div class="ge2019-constituency-result">
	<div>
		<span class="ge2019-constituency-result__party-name">Labour</span>
		<span class="ge2019-constituency-result__candidate-name">A</span>
		<span class="ge2019-constituency-result__details-value">100</span>
		<span class="ge2019-constituency-result__details-value">60.0%</span>
		<span class="ge2019-constituency-result__details-value">+1.0%</span>
	</div>
	</div>
	<div class="ge2019-constituency-result-turnout">
	<span class="ge2019-constituency-result-turnout__value">100</span>
	<span class="ge2019-constituency-result-turnout__value">200</span>
	<span class="ge2019-constituency-result-turnout__value">50%</span>
	` + changeCell + `
	</div>`
}

func TestGE2019_ChangeDirection(t *testing.T) {
	a := mustAdapter(t, models.Y2019)
	link := models.ConstituencyLink{ONSID: "W07000049", URL: "https://example/W07000049"}

	tests := []struct {
		name string
		cell string
		want string
	}{
		{"explicit sign", `<span class="ge2019-constituency-result-turnout__value">-4.3%</span>`, "-4.3%"},
		{"decrease class", `<span class="ge2019-constituency-result-turnout__value ge2019-constituency-result-turnout__value--decrease">4.3%</span>`, "-4.3%"},
		{"increase class", `<span class="ge2019-constituency-result-turnout__value ge2019-constituency-result-turnout__value--increase">4.3%</span>`, "+4.3%"},
		{"positive class on parent", `<span class="change--positive"><span class="ge2019-constituency-result-turnout__value">4.3%</span></span>`, "+4.3%"},
		{"no marker stays unsigned", `<span class="ge2019-constituency-result-turnout__value">4.3%</span>`, "4.3%"},
		{"unsigned zero", `<span class="ge2019-constituency-result-turnout__value">0.0%</span>`, "0.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := a.Parse(link, mustDoc(t, turnoutPanel2019(tt.cell)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.TurnoutChange)
		})
	}
}

func TestGE2019_ShareOutOfRange(t *testing.T) {
	a := mustAdapter(t, models.Y2019)
	link := models.ConstituencyLink{ONSID: "W07000049", URL: "https://example/W07000049"}

	html := strings.Replace(
		turnoutPanel2019(`<span class="ge2019-constituency-result-turnout__value">+1%</span>`),
		"60.0%", "160.0%", 1)
	_, err := a.Parse(link, mustDoc(t, html))
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.ErrCodeParse), "got %v", err)
	assert.Contains(t, err.Error(), "vote share")
}
