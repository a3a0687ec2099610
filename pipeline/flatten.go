package pipeline

import (
	"github.com/use-agent/hustings/models"
)

// Place is one ranked candidate in a flattened row.
type Place struct {
	Party     string
	Candidate string
	Votes     int
}

// FlatRow is one constituency reduced to its fixed fields plus ranked places.
type FlatRow struct {
	ONSID            string
	Name             string
	Turnout          *float64
	RegisteredVoters int
	TurnoutChange    string

	// WinMargin is carried through when the source supplied one, and set
	// from the full breakdown when topN cuts the row to its winner.
	WinMargin *int

	// Places holds ranks 1..N in order.
	Places []Place
}

// Field is one named cell of a FlatRow.
type Field struct {
	Name  string
	Value Value
}

// Fields returns the row's cells in column order.
func (r FlatRow) Fields() []Field {
	fields := make([]Field, 0, 6+3*len(r.Places))
	turnout := Null()
	if r.Turnout != nil {
		turnout = Float(*r.Turnout)
	}
	fields = append(fields,
		Field{ColONSID, String(r.ONSID)},
		Field{ColName, String(r.Name)},
		Field{ColTurnout, turnout},
		Field{ColRegisteredVoters, Int(int64(r.RegisteredVoters))},
		Field{ColTurnoutChange, String(r.TurnoutChange)},
	)
	if r.WinMargin != nil {
		fields = append(fields, Field{ColWinMargin, Int(int64(*r.WinMargin))})
	}
	for i, p := range r.Places {
		rank := i + 1
		fields = append(fields,
			Field{RankColumn(rank, FieldParty), String(p.Party)},
			Field{RankColumn(rank, FieldCandidate), String(p.Candidate)},
			Field{RankColumn(rank, FieldVotes), Int(int64(p.Votes))},
		)
	}
	return fields
}

// Flatten converts one record into a FlatRow holding its top topN candidates.
// topN <= 0 keeps every candidate.
func Flatten(rec models.RawConstituencyRecord, topN int) (FlatRow, error) {
	if err := checkBreakdown(rec); err != nil {
		return FlatRow{}, err
	}

	n := len(rec.Breakdown)
	if topN > 0 && topN < n {
		n = topN
	}

	row := FlatRow{
		ONSID:            rec.ONSID,
		Name:             rec.Name,
		Turnout:          copyPtr(rec.Turnout),
		RegisteredVoters: rec.RegisteredVoters,
		TurnoutChange:    rec.TurnoutChange,
		WinMargin:        copyPtr(rec.WinMargin),
		Places:           make([]Place, n),
	}
	for i, c := range rec.Breakdown[:n] {
		row.Places[i] = Place{Party: c.Party, Candidate: c.Candidate, Votes: c.Votes}
	}
	// A cut that drops the runner-up would leave the seat looking uncontested.
	if row.WinMargin == nil && n < 2 && len(rec.Breakdown) >= 2 {
		margin := rec.Breakdown[0].Votes - rec.Breakdown[1].Votes
		row.WinMargin = &margin
	}
	return row, nil
}

// checkBreakdown enforces the record invariants: at least one candidate,
// every entry complete, votes non-increasing.
func checkBreakdown(rec models.RawConstituencyRecord) error {
	if len(rec.Breakdown) == 0 {
		return models.Malformed(rec.ONSID, "breakdown is empty")
	}
	for i, c := range rec.Breakdown {
		switch {
		case c.Party == "":
			return models.Malformed(rec.ONSID, "%s candidate has no party", Ordinal(i+1))
		case c.Candidate == "":
			return models.Malformed(rec.ONSID, "%s candidate has no name", Ordinal(i+1))
		case c.Votes < 0:
			return models.Malformed(rec.ONSID, "%s candidate has negative votes %d", Ordinal(i+1), c.Votes)
		case i > 0 && c.Votes > rec.Breakdown[i-1].Votes:
			return models.Malformed(rec.ONSID, "%s candidate outpolls %s (%d > %d)",
				Ordinal(i+1), Ordinal(i), c.Votes, rec.Breakdown[i-1].Votes)
		}
	}
	return nil
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
