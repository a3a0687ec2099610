package pipeline

import (
	"strconv"
	"strings"
)

// Fixed column names of the output table.
const (
	ColONSID            = "ons_id"
	ColName             = "name"
	ColTurnout          = "turnout"
	ColRegisteredVoters = "registered_voters"
	ColTurnoutChange    = "turnout_change"
	ColTotalVotes       = "total_votes"
	ColWinMargin        = "win_margin"
)

// Per-rank column fields, in the order they appear for each rank.
const (
	FieldParty     = "party"
	FieldCandidate = "candidate"
	FieldVotes     = "votes"
)

var rankFields = []string{FieldParty, FieldCandidate, FieldVotes}

// leadingColumns is the fixed prefix of a derived table.
var leadingColumns = []string{
	ColONSID,
	ColName,
	ColTurnout,
	ColRegisteredVoters,
	ColTurnoutChange,
	ColTotalVotes,
	ColWinMargin,
}

// RankColumn names the column holding field for the candidate at rank,
// e.g. RankColumn(2, "votes") == "2nd_place_votes".
func RankColumn(rank int, field string) string {
	return Ordinal(rank) + "_place_" + field
}

// ParseRankColumn is the inverse of RankColumn.
func ParseRankColumn(col string) (rank int, field string, ok bool) {
	ord, field, found := strings.Cut(col, "_place_")
	if !found || len(ord) < 3 {
		return 0, "", false
	}
	switch field {
	case FieldParty, FieldCandidate, FieldVotes:
	default:
		return 0, "", false
	}
	n, err := strconv.Atoi(ord[:len(ord)-2])
	if err != nil || n < 1 || Ordinal(n) != ord {
		return 0, "", false
	}
	return n, field, true
}
