package pipeline

import (
	"fmt"
	"slices"

	"github.com/use-agent/hustings/models"
)

// MarginPolicy decides win_margin for a row with a single candidate.
type MarginPolicy int

const (
	// MarginError fails the row as a malformed record.
	MarginError MarginPolicy = iota
	// MarginNull leaves win_margin empty.
	MarginNull
	// MarginTotal sets win_margin to the winner's votes.
	MarginTotal
)

// ParseMarginPolicy accepts "error", "null" or "total".
func ParseMarginPolicy(s string) (MarginPolicy, error) {
	switch s {
	case "error":
		return MarginError, nil
	case "null", "":
		return MarginNull, nil
	case "total":
		return MarginTotal, nil
	}
	return 0, fmt.Errorf("unknown uncontested margin policy %q", s)
}

func (p MarginPolicy) String() string {
	switch p {
	case MarginError:
		return "error"
	case MarginNull:
		return "null"
	case MarginTotal:
		return "total"
	}
	return fmt.Sprintf("MarginPolicy(%d)", int(p))
}

// DeriveOptions tunes the derived-column pass.
type DeriveOptions struct {
	Uncontested MarginPolicy
}

// Derive computes total_votes, win_margin and the numeric turnout_change,
// fills a missing turnout with the vote count, and reorders the columns into
// the output layout. The input table is left untouched.
func Derive(in *Table, opts DeriveOptions) (*Table, error) {
	if in == nil || len(in.Rows) == 0 {
		return nil, models.NewError(models.ErrCodeEmptyInput, "no rows to derive", nil)
	}

	out := in.Clone()
	voteCols := rankVoteColumns(out.Columns)

	for _, row := range out.Rows {
		if err := deriveRow(row, voteCols, opts); err != nil {
			return nil, err
		}
	}

	out.Columns = orderColumns(out.Columns)
	return out, nil
}

// deriveRow fills the derived cells of a single row in place.
func deriveRow(row Row, voteCols []string, opts DeriveOptions) error {
	onsID, _ := row.Get(ColONSID).Str()

	var total int64
	for _, col := range voteCols {
		if v, ok := row.Get(col).AsInt(); ok {
			total += v
		}
	}
	row[ColTotalVotes] = Int(total)

	change, err := changeCell(row.Get(ColTurnoutChange))
	if err != nil {
		return models.Malformed(onsID, "turnout_change: %v", err)
	}
	row[ColTurnoutChange] = change

	if row.Get(ColTurnout).IsNull() {
		row[ColTurnout] = Int(total)
	}

	if !row.Get(ColWinMargin).IsNull() {
		return nil
	}
	margin, err := winMargin(row, opts.Uncontested)
	if err != nil {
		return models.Malformed(onsID, "win_margin: %v", err)
	}
	row[ColWinMargin] = margin
	return nil
}

// changeCell converts a signed string cell to a float. Cells already holding
// a number pass through, so deriving a derived table changes nothing.
func changeCell(v Value) (Value, error) {
	if f, ok := v.AsFloat(); ok {
		return Float(f), nil
	}
	s, ok := v.Str()
	if !ok {
		return Null(), fmt.Errorf("missing value")
	}
	f, err := ParseSignedPercent(s)
	if err != nil {
		return Null(), err
	}
	return Float(f), nil
}

func winMargin(row Row, policy MarginPolicy) (Value, error) {
	first, ok := row.Get(RankColumn(1, FieldVotes)).AsInt()
	if !ok {
		return Null(), fmt.Errorf("no 1st place votes")
	}
	second, ok := row.Get(RankColumn(2, FieldVotes)).AsInt()
	if ok {
		return Int(first - second), nil
	}
	switch policy {
	case MarginNull:
		return Null(), nil
	case MarginTotal:
		return Int(first), nil
	}
	return Null(), fmt.Errorf("uncontested seat has no 2nd place")
}

// rankVoteColumns picks the {n}_place_votes columns out of cols.
func rankVoteColumns(cols []string) []string {
	var out []string
	for _, col := range cols {
		if _, field, ok := ParseRankColumn(col); ok && field == FieldVotes {
			out = append(out, col)
		}
	}
	return out
}

// orderColumns lays out the fixed columns, then rank columns by rank and
// field, then anything else in its existing order.
func orderColumns(cols []string) []string {
	type rankCol struct {
		name  string
		rank  int
		field int
	}

	var ranks []rankCol
	var extra []string
	for _, col := range cols {
		if slices.Contains(leadingColumns, col) {
			continue
		}
		if rank, field, ok := ParseRankColumn(col); ok {
			ranks = append(ranks, rankCol{col, rank, slices.Index(rankFields, field)})
			continue
		}
		extra = append(extra, col)
	}
	slices.SortStableFunc(ranks, func(a, b rankCol) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return a.field - b.field
	})

	out := make([]string, 0, len(cols)+2)
	out = append(out, leadingColumns...)
	for _, r := range ranks {
		out = append(out, r.name)
	}
	return append(out, extra...)
}
