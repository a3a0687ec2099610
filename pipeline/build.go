package pipeline

import (
	"log/slog"

	"github.com/use-agent/hustings/models"
)

// BuildOptions configures a full reshaping pass.
type BuildOptions struct {
	// TopN limits each row to its leading candidates; <= 0 keeps all.
	TopN int

	Derive DeriveOptions

	// Strict makes the first bad record fail the whole build instead of
	// being reported as a Failure.
	Strict bool
}

// Build flattens, assembles and derives records into the final table.
// Records that cannot be reshaped are returned as failures and left out;
// the remaining rows keep their input order.
func Build(records []models.RawConstituencyRecord, opts BuildOptions) (*Table, []models.Failure, error) {
	var (
		rows     = make([]FlatRow, 0, len(records))
		failures []models.Failure
	)
	for _, rec := range records {
		row, err := Flatten(rec, opts.TopN)
		if err == nil {
			err = checkDerivable(row, opts.Derive)
		}
		if err != nil {
			if opts.Strict {
				return nil, nil, err
			}
			slog.Warn("dropping constituency", "ons_id", rec.ONSID, "error", err)
			failures = append(failures, models.NewFailure(rec.Link(), err))
			continue
		}
		rows = append(rows, row)
	}

	assembled, err := Assemble(rows)
	if err != nil {
		return nil, failures, err
	}
	final, err := Derive(assembled, opts.Derive)
	if err != nil {
		return nil, failures, err
	}
	return final, failures, nil
}

// checkDerivable runs the per-row checks Derive would fail on, so a single
// bad row can be set aside before the table is assembled.
func checkDerivable(row FlatRow, opts DeriveOptions) error {
	if _, err := ParseSignedPercent(row.TurnoutChange); err != nil {
		return models.Malformed(row.ONSID, "turnout_change: %v", err)
	}
	if row.WinMargin == nil && len(row.Places) < 2 && opts.Uncontested == MarginError {
		return models.Malformed(row.ONSID, "win_margin: uncontested seat has no 2nd place")
	}
	return nil
}
