package models

import (
	"fmt"
	"regexp"
)

// SchemaVariant tags the election edition a page layout belongs to.
type SchemaVariant int

const (
	Y2019 SchemaVariant = iota + 1
	Y2024
)

func (v SchemaVariant) String() string {
	switch v {
	case Y2019:
		return "2019"
	case Y2024:
		return "2024"
	default:
		return fmt.Sprintf("SchemaVariant(%d)", int(v))
	}
}

var onsIDPattern = regexp.MustCompile(`^[EWSN][0-9]{8}$`)

// ValidONSID reports whether id looks like an ONS constituency code.
func ValidONSID(id string) bool {
	return onsIDPattern.MatchString(id)
}

// ConstituencyLink is one entry discovered on an edition's index page.
type ConstituencyLink struct {
	ONSID string
	Name  string
	URL   string
}

// CandidateResult is one candidate's line in a constituency result.
type CandidateResult struct {
	Party     string
	Candidate string
	Votes     int

	// VoteShare is a percentage in [0,100].
	VoteShare float64

	// ShareChange is a signed percentage-point change, e.g. "+2.3%".
	ShareChange string
}

// RawConstituencyRecord is what an extraction adapter emits per constituency.
type RawConstituencyRecord struct {
	ONSID   string
	Name    string
	URL     string
	Variant SchemaVariant

	// Turnout is the turnout percentage. Nil when the edition publishes no
	// percentage; turnout is then derived as the total vote count.
	Turnout *float64

	RegisteredVoters int

	// TurnoutChange is a signed percentage-point change with an explicit
	// leading sign, e.g. "-1.1%".
	TurnoutChange string

	// WinMargin is the majority as printed by the source, if it prints one.
	WinMargin *int

	// Breakdown is ranked by votes descending, as presented by the source.
	Breakdown []CandidateResult
}

// Link returns the discovery entry the record came from.
func (r RawConstituencyRecord) Link() ConstituencyLink {
	return ConstituencyLink{ONSID: r.ONSID, Name: r.Name, URL: r.URL}
}
