package pipeline

import (
	"fmt"

	"github.com/use-agent/hustings/models"
)

func ptr[T any](v T) *T { return &v }

// record builds a 2024-style record with one candidate per vote count.
func record(onsID, change string, votes ...int) models.RawConstituencyRecord {
	rec := models.RawConstituencyRecord{
		ONSID:            onsID,
		Name:             "Constituency " + onsID,
		URL:              "https://www.bbc.co.uk/news/election/2024/uk/constituencies/" + onsID,
		Variant:          models.Y2024,
		Turnout:          ptr(61.5),
		RegisteredVoters: 75000,
		TurnoutChange:    change,
	}
	for i, v := range votes {
		rec.Breakdown = append(rec.Breakdown, models.CandidateResult{
			Party:       fmt.Sprintf("Party %d", i+1),
			Candidate:   fmt.Sprintf("Candidate %d", i+1),
			Votes:       v,
			VoteShare:   10,
			ShareChange: "+1.0%",
		})
	}
	return rec
}

func mustFlatten(recs ...models.RawConstituencyRecord) []FlatRow {
	rows := make([]FlatRow, len(recs))
	for i, rec := range recs {
		row, err := Flatten(rec, 0)
		if err != nil {
			panic(err)
		}
		rows[i] = row
	}
	return rows
}
